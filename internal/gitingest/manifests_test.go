package gitingest

import (
	"testing"
)

func TestFindPackageDestinationsPyprojectAndSetupCfg(t *testing.T) {
	tree := buildTestTree(t, map[string]string{
		"pyproject.toml": "[project]\nname = \"My-Package\"\n",
		"setup.cfg":      "[metadata]\nname = cfg-package\n",
	})

	dests, err := findPackageDestinations(tree)
	if err != nil {
		t.Fatalf("findPackageDestinations: %v", err)
	}
	if len(dests) != 2 {
		t.Fatalf("expected 2 destinations, got %d: %+v", len(dests), dests)
	}
	if dests[0].Name != "pypi/my-package" {
		t.Fatalf("expected pypi/my-package, got %q", dests[0].Name)
	}
	if dests[1].Name != "pypi/cfg-package" {
		t.Fatalf("expected pypi/cfg-package, got %q", dests[1].Name)
	}
}

func TestFindPackageDestinationsSetupPyOnlyWhenNoOthers(t *testing.T) {
	tree := buildTestTree(t, map[string]string{
		"setup.py": "from setuptools import setup\nsetup(\n    name=\"legacy-pkg\",\n    version=\"1.0\",\n)\n",
	})

	dests, err := findPackageDestinations(tree)
	if err != nil {
		t.Fatalf("findPackageDestinations: %v", err)
	}
	if len(dests) != 1 || dests[0].Name != "pypi/legacy-pkg" {
		t.Fatalf("expected pypi/legacy-pkg, got %+v", dests)
	}
}

func TestFindPackageDestinationsNPM(t *testing.T) {
	tree := buildTestTree(t, map[string]string{
		"package.json": `{"name": "my-npm-pkg", "version": "1.0.0"}`,
	})

	dests, err := findPackageDestinations(tree)
	if err != nil {
		t.Fatalf("findPackageDestinations: %v", err)
	}
	if len(dests) != 1 || dests[0].Name != "npm/my-npm-pkg" {
		t.Fatalf("expected npm/my-npm-pkg, got %+v", dests)
	}
}

func TestFindPackageDestinationsTypeshedStubs(t *testing.T) {
	tree := buildTestTree(t, map[string]string{
		"pyproject.toml":               "[project]\nname = \"typeshed\"\n",
		"stubs/requests/METADATA.toml": "version = \"1.0\"\n",
		"stubs/six/METADATA.toml":      "version = \"1.0\"\n",
	})

	dests, err := findPackageDestinations(tree)
	if err != nil {
		t.Fatalf("findPackageDestinations: %v", err)
	}

	names := map[string]bool{}
	for _, d := range dests {
		names[d.Name] = true
	}
	for _, want := range []string{"pypi/typeshed", "pypi/types-requests", "pypi/types-six"} {
		if !names[want] {
			t.Errorf("expected destination %q in %+v", want, dests)
		}
	}
}

func TestPypiNormalize(t *testing.T) {
	cases := map[string]string{
		"My_Package.Name": "my-package-name",
		"already-normal":  "already-normal",
		"":                "",
	}
	for in, want := range cases {
		if got := pypiNormalize(in); got != want {
			t.Errorf("pypiNormalize(%q) = %q, want %q", in, got, want)
		}
	}
}
