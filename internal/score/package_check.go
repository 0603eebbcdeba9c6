package score

import (
	"regexp"
	"strings"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/license"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

const skewTolerance = 365 * 24 * time.Hour

var pypiSeparatorRe = regexp.MustCompile(`[-_.]+`)

// ecosystemNormalizeName mirrors app_score.py's package_normalize_name:
// only PyPI names get the `[-_.]+ -> -` fold; every other ecosystem's
// name passes through unchanged.
func ecosystemNormalizeName(ecosystem, name string) string {
	if ecosystem == "pypi" {
		return strings.ToLower(pypiSeparatorRe.ReplaceAllString(name, "-"))
	}
	return name
}

// packageCheckNotes implements §4.F.4, grounded on app_score.py's
// score_python and check_package_license.
func packageCheckNotes(ecosystem string, pkg *model.Package, source *model.Source) []notes.Code {
	if pkg == nil || source == nil || source.Error != "" {
		return nil
	}

	var out []notes.Code

	prefix := ecosystem + "/"
	var destinations []string
	for _, d := range source.PackageDestinations {
		if strings.HasPrefix(d.Name, prefix) {
			destinations = append(destinations, d.Name[len(prefix):])
		}
	}

	if len(destinations) == 0 {
		out = append(out, notes.NoProjectName)
	} else {
		published := ecosystemNormalizeName(ecosystem, pkg.Name)
		found := false
		for _, d := range destinations {
			if d == published {
				found = true
				break
			}
		}
		if !found {
			out = append(out, notes.PackageNameMismatch)
		}
	}

	if source.LatestCommit != nil && pkg.ReleaseDate != nil {
		skew := source.LatestCommit.Sub(*pkg.ReleaseDate)
		if skew > skewTolerance {
			out = append(out, notes.PackageSkewNotUpdated)
		} else if skew < -skewTolerance {
			out = append(out, notes.PackageSkewNotReleased)
		}
	}

	out = append(out, checkPackageLicense(pkg, source)...)
	return out
}

// checkPackageLicense implements §4.F.4's license cross-check, grounded
// on check_package_license: a matching license kind (case-sensitive,
// exact string equality, same as the original) or a matching normalized
// md5 accepts the declared license; otherwise a long declared string is
// assumed to be free text rather than an SPDX identifier.
func checkPackageLicense(pkg *model.Package, source *model.Source) []notes.Code {
	if pkg.License == "" {
		return []notes.Code{notes.PackageNoLicense}
	}

	declaredMD5 := license.MD5(pkg.License)
	for _, lic := range source.Licenses {
		if lic.Kind == "" || strings.EqualFold(lic.Kind, "unknown") {
			continue
		}
		if pkg.License == lic.Kind {
			return nil
		}
		if lic.MD5 != "" && lic.MD5 == declaredMD5 {
			return nil
		}
	}

	if len(pkg.License) > 100 {
		return []notes.Code{notes.PackageLicenseNotSPDXID}
	}
	return []notes.Code{notes.PackageLicenseMismatch}
}
