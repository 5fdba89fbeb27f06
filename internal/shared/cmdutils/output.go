package cmdutils

import (
	"fmt"
	"io"
)

const (
	Logo    = "🧮"
	AppName = "toolchat"
)

// PrintResponse writes an assistant reply under the application banner.
func PrintResponse(w io.Writer, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(w, "\n%s %s\n%s\n\n", Logo, AppName, text)
}
