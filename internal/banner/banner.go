// Package banner renders the start-up banner of the langid command.
package banner

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	logoColor    = color.New(color.FgCyan, color.Bold)
	versionColor = color.New(color.FgYellow, color.Bold)
	taglineColor = color.New(color.Faint)
)

const logo = `
 _                   _     _
| | __ _ _ __   __ _(_) __| |
| |/ _' | '_ \ / _' | |/ _' |
| | (_| | | | | (_| | | (_| |
|_|\__,_|_| |_|\__, |_|\__,_|
               |___/
`

// Banner returns the logo followed by the version line.
func Banner(version string) string {
	return logoColor.Sprint(logo) +
		fmt.Sprintf("  %s %s\n\n", versionColor.Sprint(version), taglineColor.Sprint("byte n-gram language identification"))
}
