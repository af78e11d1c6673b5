package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// groupClass is the structural role of a group within the file. It differs
// from Kind in that curves without attributes are pure polygon inputs.
type groupClass int

const (
	classUnclassified groupClass = iota
	classPoint
	classCurve
	classPolygon
	classText
	classReferenceOnly
)

func (c groupClass) String() string {
	switch c {
	case classPoint:
		return "point"
	case classCurve:
		return "curve"
	case classPolygon:
		return "polygon"
	case classText:
		return "text"
	case classReferenceOnly:
		return "reference-only"
	default:
		return "unclassified"
	}
}

// kind maps the class to the declared feature kind.
func (c groupClass) kind() Kind {
	switch c {
	case classPoint:
		return KindPoint
	case classCurve, classReferenceOnly:
		return KindCurve
	case classPolygon:
		return KindSurface
	case classText:
		return KindText
	default:
		return KindUnknown
	}
}

// keywordClasses maps level-1 keywords to their class. Arc and clothoid
// primitives are carried as polylines through their defining vertices.
var keywordClasses = map[string]groupClass{
	"PUNKT":    classPoint,
	"SYMBOL":   classPoint,
	"KURVE":    classCurve,
	"LINJE":    classCurve,
	"BUEP":     classCurve,
	"BUE":      classCurve,
	"SIRKELP":  classCurve,
	"SIRKEL":   classCurve,
	"KLOTOIDE": classCurve,
	"FLATE":    classPolygon,
	"TEKST":    classText,
}

// Structural keys shape the geometry and never become attributes.
const (
	keyCoords       = "NØ"
	keyCoordsHeight = "NØH"
	keyCoordsDepth  = "NØD"
	keyNode         = "KP"
	keyRef          = "REF"
	keyUnit         = "ENHET"
	keyUnitHeight   = "ENHET-H"
	keyUnitDepth    = "ENHET-D"
)

// rawTuple is one coordinate line in file order: north, east and optionally height
type rawTuple struct {
	north, east, height int64
	hasHeight           bool
	line                int
}

// ringRef is a signed reference to an earlier curve
type ringRef struct {
	id       int64
	reversed bool
}

// rawGroup is a level-1 statement with everything folded under it
type rawGroup struct {
	keyword    string
	class      groupClass
	localID    int64
	hasID      bool
	line       int
	attributes *Attributes
	coords     []rawTuple
	// rings[0] is the outer boundary, later entries are islands
	rings    [][]ringRef
	refRing  int // ring receiving references while parsing
	xyUnit   string
	zUnit    string
	warnings []error
}

// buildGroup folds the statements that follow head (all at level >= 2) into
// a rawGroup. Malformed coordinate and reference lines are skipped and
// recorded as warnings.
func buildGroup(head *statement, body []*statement) *rawGroup {
	g := &rawGroup{
		keyword:    head.key,
		line:       head.line,
		attributes: NewAttributes(),
	}
	g.class = keywordClasses[head.key]
	g.localID, g.hasID = parseLocalID(head.value)

	inCoords := false
	for i, st := range body {
		switch st.key {
		case keyCoords, keyCoordsHeight, keyCoordsDepth:
			inCoords = true
			g.addCoordinateLines(st.value, st.line)
			for _, line := range st.lines {
				g.addCoordinateLines(line, st.line)
			}
			continue
		case keyNode:
			// Node markers sit between coordinate lines; lines after them
			// still belong to the open coordinate block.
			if inCoords {
				for _, line := range st.lines {
					g.addCoordinateLines(line, st.line)
				}
			}
			continue
		case keyRef:
			inCoords = false
			g.addReferences(st.value, st.line)
			for _, line := range st.lines {
				g.addReferences(line, st.line)
			}
			continue
		case keyUnit:
			g.xyUnit = st.value
			continue
		case keyUnitHeight, keyUnitDepth:
			g.zUnit = st.value
			continue
		}
		inCoords = false

		if misdecodedKey(st.key) {
			g.warnings = append(g.warnings, &ErrMalformedLine{
				Line:   st.line,
				Text:   st.key,
				Reason: "keyword does not decode in the file charset",
			})
		}

		value := joinValue(st)
		if value == "" && i+1 < len(body) && body[i+1].level > st.level {
			// Parent of sub-attributes; the children carry the values.
			continue
		}
		g.attributes.Set(st.key, unquote(value))
	}

	if g.class == classCurve && g.attributes.Len() == 0 {
		g.class = classReferenceOnly
	}
	return g
}

// addCoordinateLines parses one coordinate line. Inline node markers such as
// "...KP 1" end the numeric part.
func (g *rawGroup) addCoordinateLines(text string, line int) {
	if i := strings.Index(text, "."); i >= 0 && isInlineKeyword(text[i:]) {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}
	if len(fields) != 2 && len(fields) != 3 {
		g.warnings = append(g.warnings, &ErrMalformedLine{
			Line:   line,
			Text:   text,
			Reason: fmt.Sprintf("expected 2 or 3 integers, got %d fields", len(fields)),
		})
		return
	}

	var values [3]int64
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				g.warnings = append(g.warnings, &ErrCoordinateOverflow{Line: line, Value: f})
			} else {
				g.warnings = append(g.warnings, &ErrMalformedLine{
					Line:   line,
					Text:   text,
					Reason: fmt.Sprintf("%q is not an integer", f),
				})
			}
			return
		}
		values[i] = v
	}

	g.coords = append(g.coords, rawTuple{
		north:     values[0],
		east:      values[1],
		height:    values[2],
		hasHeight: len(fields) == 3,
		line:      line,
	})
}

// isInlineKeyword reports whether s starts with a dotted keyword, as opposed
// to a decimal point.
func isInlineKeyword(s string) bool {
	i := 0
	for i < len(s) && s[i] == '.' {
		i++
	}
	return i < len(s) && (s[i] < '0' || s[i] > '9')
}

// addReferences parses ring references such as ":12 -:45 (:100 :101)".
// A parenthesised run is an island ring; references outside parentheses
// extend the outer ring. Parentheses may span continuation lines.
func (g *rawGroup) addReferences(text string, line int) {
	if len(g.rings) == 0 {
		g.rings = append(g.rings, nil)
	}

	for _, tok := range strings.Fields(text) {
		for strings.HasPrefix(tok, "(") {
			g.rings = append(g.rings, nil)
			g.refRing = len(g.rings) - 1
			tok = tok[1:]
		}
		closing := strings.HasSuffix(tok, ")")
		tok = strings.TrimRight(tok, ")")

		if tok != "" {
			ref, err := parseRef(tok)
			if err != nil {
				g.warnings = append(g.warnings, &ErrMalformedLine{Line: line, Text: tok, Reason: err.Error()})
			} else {
				g.rings[g.refRing] = append(g.rings[g.refRing], ref)
			}
		}

		if closing {
			g.refRing = 0
		}
	}
}

// parseRef parses ":12", "-:45", ":-45" or "12".
func parseRef(tok string) (ringRef, error) {
	reversed := false
	if strings.HasPrefix(tok, "-") {
		reversed = true
		tok = tok[1:]
	}
	tok = strings.TrimPrefix(tok, ":")
	if strings.HasPrefix(tok, "-") {
		reversed = !reversed
		tok = tok[1:]
	}
	id, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || id <= 0 {
		return ringRef{}, fmt.Errorf("invalid ring reference")
	}
	return ringRef{id: id, reversed: reversed}, nil
}

// parseLocalID parses the group value "12:" into 12.
func parseLocalID(value string) (int64, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, false
	}
	s := strings.TrimSuffix(fields[0], ":")
	id, err := strconv.ParseInt(strings.TrimPrefix(s, ":"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// joinValue returns the statement value with continuation lines appended.
func joinValue(st *statement) string {
	if len(st.lines) == 0 {
		return st.value
	}
	parts := make([]string, 0, len(st.lines)+1)
	if st.value != "" {
		parts = append(parts, st.value)
	}
	parts = append(parts, st.lines...)
	return strings.Join(parts, " ")
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			inner := s[1 : len(s)-1]
			if !strings.ContainsRune(inner, rune(s[0])) {
				return inner
			}
		}
	}
	return s
}
