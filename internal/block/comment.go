package block

import "bytes"

// CommentPart returns the length, in bytes, of body's comment part: for
// C/JavaScript, up through and including the first "*/" plus any trailing
// whitespace; for Python, up through and including the second `"""`; for
// Markdown, zero (the empty prefix — a heading line is itself the code,
// there being no separate comment delimiter). CodePart is always
// len(body) - CommentPart(lang, body), so CommentPart(b)++CodePart(b) ==
// b holds by construction (P3).
func CommentPart(lang Language, body []byte) int {
	switch lang {
	case C, JavaScript:
		return cCommentLen(body)
	case Python:
		return pythonCommentLen(body)
	case Markdown:
		return 0
	default:
		return 0
	}
}

func cCommentLen(body []byte) int {
	end := bytes.Index(body, []byte("*/"))
	if end < 0 {
		return 0
	}
	n := end + len("*/")
	for n < len(body) && isSpace(body[n]) {
		n++
	}
	return n
}

func pythonCommentLen(body []byte) int {
	first := bytes.Index(body, []byte(`"""`))
	if first < 0 {
		return 0
	}
	afterFirst := first + 3
	rel := bytes.Index(body[afterFirst:], []byte(`"""`))
	if rel < 0 {
		return 0
	}
	n := afterFirst + rel + 3
	for n < len(body) && isSpace(body[n]) {
		n++
	}
	return n
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// CommentAndCode splits body into its comment and code parts for lang.
func CommentAndCode(lang Language, body []byte) (comment, code []byte) {
	n := CommentPart(lang, body)
	return body[:n], body[n:]
}

// TrailingNewlines counts how many of the last bytes of comment are '\n',
// capped at 2 (the pipeline only distinguishes 0, 1, and "2 or more").
func TrailingNewlines(comment []byte) int {
	n := 0
	for i := len(comment) - 1; i >= 0 && n < 2; i-- {
		if comment[i] != '\n' {
			break
		}
		n++
	}
	return n
}

// Rebuild reconstructs a block body as comment ++ padding ++ code ++ "\n",
// where padding is chosen so the comment ends with exactly two newlines
// before code begins: zero bytes if comment already ends with two
// newlines, otherwise enough '\n' to reach two. This is the
// comment-preserving replacement variant (§4.4): used whenever code comes
// from the LLM rather than a whole block replacement from the editor.
func Rebuild(comment, code []byte) []byte {
	have := TrailingNewlines(comment)
	pad := 2 - have
	if pad < 0 {
		pad = 0
	}

	out := make([]byte, 0, len(comment)+pad+len(code)+1)
	out = append(out, comment...)
	for i := 0; i < pad; i++ {
		out = append(out, '\n')
	}
	out = append(out, code...)
	out = append(out, '\n')
	return out
}
