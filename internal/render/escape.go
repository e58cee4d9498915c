package render

import (
	"strings"

	"github.com/aymerick/raymond"
	"github.com/aymerick/raymond/lexer"
)

// escapeHelper is the helper every escaped mustache is routed through.
const escapeHelper = "escapeExpression"

// htmlEscaper is the Handlebars.js escape table. raymond's own escaping
// writes ' as &apos; and leaves ` and = untouched.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// EscapeExpression HTML-escapes s the way Handlebars.js does.
func EscapeExpression(s string) string {
	return htmlEscaper.Replace(s)
}

func escapeExpression(value any) raymond.SafeString {
	if safe, ok := value.(raymond.SafeString); ok {
		return safe
	}
	return raymond.SafeString(EscapeExpression(raymond.Str(value)))
}

// routeEscaped rewrites every escaped mustache, {{expr}}, into the unescaped
// form {{{escapeExpression (expr)}}}. Unescaped mustaches, blocks, partials,
// comments and raw blocks are left alone. Newlines are preserved, so line
// numbers stay valid. The source is returned unchanged when it does not lex.
func routeEscaped(source string) string {
	l := lexer.Scan(source)

	var (
		sb   strings.Builder
		last int
		open *lexer.Token
	)

	for {
		tok := l.NextToken()

		switch tok.Kind {
		case lexer.TokenEOF:
			sb.WriteString(source[last:])
			return sb.String()
		case lexer.TokenError:
			return source
		case lexer.TokenOpen:
			if !strings.Contains(tok.Val, "&") {
				t := tok
				open = &t
			}
		case lexer.TokenClose:
			if open == nil {
				continue
			}

			expr := source[open.Pos+len(open.Val) : tok.Pos]

			sb.WriteString(source[last:open.Pos])
			sb.WriteString(open.Val + "{")
			sb.WriteString(escapeHelper + " (" + expr + ")")
			if strings.HasPrefix(tok.Val, "~") {
				sb.WriteString("}~}}")
			} else {
				sb.WriteString("}}}")
			}

			last = tok.Pos + len(tok.Val)
			open = nil
		}
	}
}
