package submit

import "regexp"

var whitespaceRun = regexp.MustCompile(`\s+`)

// CompiledFilename derives the uploaded file name from a session name: every run of
// whitespace becomes a single underscore and "_compiled.pdf" is appended.
func CompiledFilename(sessionName string) string {
	return whitespaceRun.ReplaceAllString(sessionName, "_") + "_compiled.pdf"
}
