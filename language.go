package md2notion

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// DefaultLanguage is the plain-text marker used when a fence has no info
// string or the language cannot be resolved.
const DefaultLanguage = "plain text"

// supportedLanguages is the consuming API's accepted language set.
var supportedLanguages = map[string]bool{
	"abap": true, "arduino": true, "assembly": true, "bash": true,
	"basic": true, "c": true, "c#": true, "c++": true, "clojure": true,
	"coffeescript": true, "css": true, "dart": true, "diff": true,
	"docker": true, "elixir": true, "elm": true, "erlang": true,
	"fortran": true, "f#": true, "gherkin": true, "glsl": true, "go": true,
	"graphql": true, "groovy": true, "haskell": true, "html": true,
	"java": true, "javascript": true, "json": true, "julia": true,
	"kotlin": true, "latex": true, "less": true, "lisp": true, "lua": true,
	"makefile": true, "markdown": true, "markup": true, "matlab": true,
	"mermaid": true, "nix": true, "objective-c": true, "ocaml": true,
	"pascal": true, "perl": true, "php": true, "plain text": true,
	"powershell": true, "prolog": true, "protobuf": true, "python": true,
	"r": true, "ruby": true, "rust": true, "sass": true, "scala": true,
	"scheme": true, "scss": true, "shell": true, "sql": true, "swift": true,
	"typescript": true, "verilog": true, "vhdl": true, "webassembly": true,
	"xml": true, "yaml": true,
}

// chromaNameFixups maps lexer names (lower-cased) that differ from the
// consuming API's spelling.
var chromaNameFixups = map[string]string{
	"plaintext":     DefaultLanguage,
	"text":          DefaultLanguage,
	"csharp":        "c#",
	"fsharp":        "f#",
	"objectivec":    "objective-c",
	"gas":           "assembly",
	"tex":           "latex",
	"dockerfile":    "docker",
	"transact-sql":  "sql",
	"plpgsql":       "sql",
	"base makefile": "makefile",
}

// normalizeLanguage canonicalizes a fence info string against the lexer
// registry and the supported language set. Unknown languages degrade to
// plain text rather than failing the block.
func normalizeLanguage(info string) string {
	info = strings.ToLower(strings.TrimSpace(info))
	if info == "" {
		return DefaultLanguage
	}
	if supportedLanguages[info] {
		return info
	}
	if fixed, ok := chromaNameFixups[info]; ok {
		return fixed
	}

	// The lexer registry resolves aliases (js, golang, yml, ...) to their
	// canonical names.
	if lexer := lexers.Get(info); lexer != nil {
		name := strings.ToLower(lexer.Config().Name)
		if fixed, ok := chromaNameFixups[name]; ok {
			return fixed
		}
		if supportedLanguages[name] {
			return name
		}
	}
	return DefaultLanguage
}
