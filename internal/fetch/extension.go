package fetch

import (
	"mime"
	"strings"
)

// extraExtensions supplements the stdlib MIME registry with common
// non-standard spreadsheet mappings, the way a non-strict MIME lookup would.
var extraExtensions = map[string][]string{
	"application/vnd.ms-excel": {".xls", ".xlt", ".xla", ".xlb"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {".xlsx"},
	"application/vnd.ms-excel.sheet.macroenabled.12":                    {".xlsm"},
	"application/vnd.oasis.opendocument.spreadsheet":                    {".ods"},
	"application/x-msexcel": {".xls"},
	"application/excel":     {".xls"},
	"application/msexcel":   {".xls"},
}

// CandidateExtension derives the extension implied by the URL itself: the
// substring after the final '.', prefixed with '.'. A URL without any '.'
// yields the bare prefix.
func CandidateExtension(url string) string {
	idx := strings.LastIndex(url, ".")
	if idx < 0 {
		return "."
	}
	return "." + strings.TrimSpace(url[idx+1:])
}

// ImpliedExtensions returns every extension the declared content type maps
// to, combining the platform MIME registry with the non-standard mappings
// above. The result is empty when the type is unknown or malformed.
func ImpliedExtensions(contentType string) []string {
	if contentType == "" {
		return nil
	}

	var exts []string
	if known, err := mime.ExtensionsByType(contentType); err == nil {
		exts = append(exts, known...)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	for _, ext := range extraExtensions[mediaType] {
		if !contains(exts, ext) {
			exts = append(exts, ext)
		}
	}

	return exts
}

// MatchesExtension reports whether the URL-derived extension is among those
// implied by the content type.
func MatchesExtension(candidate string, implied []string) bool {
	return contains(implied, candidate)
}

func contains(exts []string, ext string) bool {
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
