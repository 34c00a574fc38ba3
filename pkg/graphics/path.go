package graphics

import (
	"fmt"
	"strconv"
	"strings"
)

// PathElementKind is the kind of a PathElement.
type PathElementKind int

// Possible values of PathElementKind.
const (
	MoveTo PathElementKind = iota
	LineTo
	ArcTo
	QuadraticTo
	CubicTo
	Close
)

var pathElementNames = [...]string{"MoveTo", "LineTo", "ArcTo", "QuadraticTo", "CubicTo", "Close"}

func (k PathElementKind) String() string { return pathElementNames[k] }

// PathElementKindOf returns the kind of the path element with the given
// element name.
func PathElementKindOf(name string) (PathElementKind, bool) {
	for i, n := range pathElementNames {
		if n == name {
			return PathElementKind(i), true
		}
	}
	return 0, false
}

// PathElement is one command of a path. Coordinates are absolute.
type PathElement struct {
	Kind                 PathElementKind
	X, Y                 float32
	ControlX, ControlY   float32
	Control2X, Control2Y float32
	RadiusX, RadiusY     float32
	XRotation            float32
	LargeArc, Sweep      bool
}

// PathData is a compiled path.
type PathData struct {
	Elements []PathElement
}

// IsEmpty reports whether the path has no elements.
func (p PathData) IsEmpty() bool { return len(p.Elements) == 0 }

// ParseSVGPath parses the d attribute syntax of SVG paths. Relative
// commands are converted to absolute coordinates and H/V to LineTo.
func ParseSVGPath(commands string) (PathData, error) {
	sc := &svgScanner{src: commands}
	var data PathData
	var cur, start Point
	var cmd byte
	for {
		sc.skipSeparators()
		if sc.eof() {
			break
		}
		if c := sc.peek(); isCommand(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return PathData{}, fmt.Errorf("expected a command at offset %d", sc.pos)
		} else if cmd == 'M' || cmd == 'm' {
			// Coordinates following a move are implicit lines.
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}
		}
		rel := cmd >= 'a'
		abs := func(x, y float32) (float32, float32) {
			if rel {
				return cur.X + x, cur.Y + y
			}
			return x, y
		}

		var el PathElement
		switch cmd | 0x20 {
		case 'z':
			data.Elements = append(data.Elements, PathElement{Kind: Close})
			cur = start
			cmd = 0
			continue
		case 'm', 'l':
			x, y, err := sc.pair()
			if err != nil {
				return PathData{}, err
			}
			el.Kind = LineTo
			if cmd|0x20 == 'm' {
				el.Kind = MoveTo
			}
			el.X, el.Y = abs(x, y)
		case 'h', 'v':
			v, err := sc.number()
			if err != nil {
				return PathData{}, err
			}
			el = PathElement{Kind: LineTo, X: cur.X, Y: cur.Y}
			switch cmd {
			case 'H':
				el.X = v
			case 'h':
				el.X += v
			case 'V':
				el.Y = v
			case 'v':
				el.Y += v
			}
		case 'q':
			nums, err := sc.numbers(4)
			if err != nil {
				return PathData{}, err
			}
			el.Kind = QuadraticTo
			el.ControlX, el.ControlY = abs(nums[0], nums[1])
			el.X, el.Y = abs(nums[2], nums[3])
		case 'c':
			nums, err := sc.numbers(6)
			if err != nil {
				return PathData{}, err
			}
			el.Kind = CubicTo
			el.ControlX, el.ControlY = abs(nums[0], nums[1])
			el.Control2X, el.Control2Y = abs(nums[2], nums[3])
			el.X, el.Y = abs(nums[4], nums[5])
		case 'a':
			nums, err := sc.numbers(7)
			if err != nil {
				return PathData{}, err
			}
			el = PathElement{Kind: ArcTo, RadiusX: nums[0], RadiusY: nums[1],
				XRotation: nums[2], LargeArc: nums[3] != 0, Sweep: nums[4] != 0}
			el.X, el.Y = abs(nums[5], nums[6])
		default:
			return PathData{}, fmt.Errorf("unsupported command %q", cmd)
		}
		data.Elements = append(data.Elements, el)
		cur = Point{el.X, el.Y}
		if el.Kind == MoveTo {
			start = cur
		}
	}
	return data, nil
}

func isCommand(c byte) bool {
	return strings.IndexByte("MmLlHhVvQqCcAaZz", c) >= 0
}

type svgScanner struct {
	src string
	pos int
}

func (sc *svgScanner) eof() bool  { return sc.pos >= len(sc.src) }
func (sc *svgScanner) peek() byte { return sc.src[sc.pos] }

func (sc *svgScanner) skipSeparators() {
	for !sc.eof() && strings.IndexByte(" \t\r\n,", sc.peek()) >= 0 {
		sc.pos++
	}
}

func (sc *svgScanner) number() (float32, error) {
	sc.skipSeparators()
	begin := sc.pos
	if !sc.eof() && (sc.peek() == '-' || sc.peek() == '+') {
		sc.pos++
	}
	for !sc.eof() {
		c := sc.peek()
		if ('0' <= c && c <= '9') || c == '.' || c == 'e' || c == 'E' {
			sc.pos++
		} else {
			break
		}
	}
	v, err := strconv.ParseFloat(sc.src[begin:sc.pos], 32)
	if err != nil {
		return 0, fmt.Errorf("expected a number at offset %d", begin)
	}
	return float32(v), nil
}

func (sc *svgScanner) pair() (float32, float32, error) {
	nums, err := sc.numbers(2)
	if err != nil {
		return 0, 0, err
	}
	return nums[0], nums[1], nil
}

func (sc *svgScanner) numbers(n int) ([]float32, error) {
	nums := make([]float32, n)
	for i := range nums {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	return nums, nil
}
