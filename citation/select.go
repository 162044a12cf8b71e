package citation

import "strings"

// SelectBestCitation returns the first variant opening with a lead-in
// ("Menurut" or "Berdasarkan"), else the first variant, else "".
func SelectBestCitation(citations []string) string {
	if len(citations) == 0 {
		return ""
	}
	for _, c := range citations {
		if strings.HasPrefix(c, LeadIn) || strings.HasPrefix(c, AltLeadIn) {
			return c
		}
	}
	return citations[0]
}

// SelectBestBibliography returns the first variant carrying the
// "Dokumen Akademik" label, else the first variant, else "".
func SelectBestBibliography(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	for _, b := range entries {
		if strings.Contains(b, LabelAcademicDocument) {
			return b
		}
	}
	return entries[0]
}
