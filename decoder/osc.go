package decoder

import "strings"

// handleOSC dispatches a completed OSC payload (without its BEL/ST
// terminator). Recognizes OSC 0/2 (window title) and OSC 7 (current
// working directory, a teacher addition kept per SPEC_FULL.md §C.1).
func (d *Decoder) handleOSC(buf []byte, emits *[]Emit) {
	payload := string(buf)
	semi := strings.IndexByte(payload, ';')
	if semi < 0 {
		return
	}
	code := payload[:semi]
	arg := payload[semi+1:]

	switch code {
	case "0", "2":
		*emits = append(*emits, Emit{Kind: SetTitle, Text: arg})
	case "7":
		if path, ok := parseOSC7Path(arg); ok {
			*emits = append(*emits, Emit{Kind: SetWorkingDirectory, Text: path})
		}
	}
}

// parseOSC7Path extracts the filesystem path from an OSC 7 payload,
// which is a "file://host/path"-style URI. Only the path component is
// returned; percent-encoding is left as-is since shells rarely emit it
// for ordinary paths.
func parseOSC7Path(arg string) (string, bool) {
	const scheme = "file://"
	if !strings.HasPrefix(arg, scheme) {
		return "", false
	}
	rest := arg[len(scheme):]
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return rest[idx:], true
	}
	return "", false
}
