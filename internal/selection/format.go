package selection

import (
	"strconv"
	"strings"
)

// Format renders r through a template. Verbs:
//
//	%x %y %w %h  position and size
//	%g           X geometry string, WxH+X+Y
//	%i           window id (decimal)
//	%I           window id (hex)
//	%b           border width
//	%c           1 if cancelled, else 0
//	%m           monitor name
//	%%           a literal percent sign
//
// The escapes \n and \t are expanded. Unknown verbs are copied as-is.
func Format(format string, r Result) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if i+1 >= len(format) || (ch != '%' && ch != '\\') {
			b.WriteByte(ch)
			continue
		}

		next := format[i+1]
		if ch == '\\' {
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(ch)
				continue
			}
			i++
			continue
		}

		switch next {
		case 'x':
			b.WriteString(strconv.Itoa(r.Rect.X))
		case 'y':
			b.WriteString(strconv.Itoa(r.Rect.Y))
		case 'w':
			b.WriteString(strconv.Itoa(r.Rect.Width))
		case 'h':
			b.WriteString(strconv.Itoa(r.Rect.Height))
		case 'b':
			b.WriteString(strconv.Itoa(r.Rect.Border))
		case 'g':
			b.WriteString(Geometry(r))
		case 'i':
			b.WriteString(strconv.FormatUint(uint64(r.Window), 10))
		case 'I':
			b.WriteString("0x" + strconv.FormatUint(uint64(r.Window), 16))
		case 'c':
			if r.Cancelled {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		case 'm':
			b.WriteString(r.Monitor)
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte(ch)
			continue
		}
		i++
	}
	return b.String()
}

// Geometry returns the X geometry string WxH+X+Y. Negative offsets keep their
// sign, as in 100x100+-5+10 for a window hanging off the left edge.
func Geometry(r Result) string {
	return strconv.Itoa(r.Rect.Width) + "x" + strconv.Itoa(r.Rect.Height) +
		"+" + strconv.Itoa(r.Rect.X) + "+" + strconv.Itoa(r.Rect.Y)
}
