package score

import (
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

// legalNotes implements §4.F.3. It supersedes score/score/legal.py's
// LICENSE_LESS_PERMISSIVE/LICENSE_NOT_OSS pairing (superseded per
// spec.md in favor of the richer per-license fields the License Matcher
// now produces: spdx_id presence, OSI approval, and the tagged
// restriction set computed by internal/license).
func legalNotes(source *model.Source) []notes.Code {
	var out []notes.Code
	if source.Error != "" {
		out = append(out, source.Error)
	}
	if len(source.Licenses) == 0 {
		out = append(out, notes.NoLicense)
		return out
	}

	for _, lic := range source.Licenses {
		if lic.Error != "" {
			out = append(out, lic.Error)
			continue
		}
		if lic.LicenseName == "Unknown" {
			out = append(out, notes.LicenseUnknown)
		}
		if lic.AdditionalText != "" {
			out = append(out, notes.LicenseAdditionalText)
		}
		if lic.SPDXID == "" {
			out = append(out, notes.LicenseNotInSPDX)
		} else if lic.IsOSIApproved == nil || !*lic.IsOSIApproved {
			out = append(out, notes.LicenseNotOSIApproved)
		}
		for _, tag := range lic.Restrictions {
			if code, ok := notes.RestrictionNote(tag); ok {
				out = append(out, code)
			}
		}
		if lic.Modified {
			out = append(out, notes.LicenseModified)
		}
	}
	return out
}
