package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

func TestParsePyPIDependency(t *testing.T) {
	cases := []struct {
		in   string
		want model.Dependency
	}{
		{
			in: "click>=8.1.3,>2.0",
			want: model.Dependency{
				Name:       "click",
				Specifiers: []string{">=8.1.3", ">2.0"},
			},
		},
		{
			in: `importlib-metadata>=3.6.0; python_version < "3.10"`,
			want: model.Dependency{
				Name:              "importlib-metadata",
				Specifiers:        []string{">=3.6.0"},
				EnvironmentMarker: `python_version < "3.10"`,
			},
		},
		{
			in: `python-dotenv; extra == "dotenv"`,
			want: model.Dependency{
				Name:              "python-dotenv",
				Specifiers:        []string{},
				EnvironmentMarker: `extra == "dotenv"`,
				ExtraMarker:       "dotenv",
			},
		},
		{
			in: "requests[security,socks]>=2.0",
			want: model.Dependency{
				Name:       "requests",
				Extras:     []string{"security", "socks"},
				Specifiers: []string{">=2.0"},
			},
		},
		{
			in: "mypkg @ https://example.com/mypkg.tar.gz",
			want: model.Dependency{
				Name:       "mypkg",
				Specifiers: []string{},
			},
		},
	}

	for _, c := range cases {
		got, err := parsePyPIDependency(c.in)
		if err != nil {
			t.Fatalf("parsePyPIDependency(%q): %v", c.in, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("parsePyPIDependency(%q) mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestParsePyPIDependenciesSkipsUnparseable(t *testing.T) {
	got := parsePyPIDependencies([]string{"click>=8.1.3", "!!!not-a-name"})
	if len(got) != 1 {
		t.Fatalf("got %d deps, want 1 (unparseable line should be skipped)", len(got))
	}
	if got[0].Name != "click" {
		t.Errorf("Name = %q, want click", got[0].Name)
	}
}

func TestParseCondaDependencies(t *testing.T) {
	got := parseCondaDependencies("conda-forge", []string{"numpy >=1.20", "python"})
	want := []model.Dependency{
		{Name: "conda-forge/numpy", Specifiers: []string{">=1.20"}},
		{Name: "conda-forge/python", Specifiers: []string{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseCondaDependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNPMDependencies(t *testing.T) {
	got := parseNPMDependencies(map[string]string{"lodash": "^4.17.21"})
	if len(got) != 1 || got[0].Name != "lodash" || got[0].Specifiers[0] != "^4.17.21" {
		t.Errorf("parseNPMDependencies = %+v", got)
	}
}
