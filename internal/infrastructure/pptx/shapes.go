package pptx

import (
	"encoding/xml"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
)

// shape is the text content of one slide shape or table frame.
type shape struct {
	placeholder string
	x, y        int64
	hasOffset   bool
	lines       []string
}

func (s shape) isTitle() bool {
	return s.placeholder == "title" || s.placeholder == "ctrTitle"
}

// parseShapes walks a slide or notes part and collects the text of every shape in document order.
func parseShapes(r io.Reader) ([]shape, error) {
	dec := xml.NewDecoder(r)

	var (
		shapes  []shape
		cur     *shape
		depth   int
		shapeAt int
		inText  bool
		para    strings.Builder
		inPara  bool
		cell    []string
		row     []string
		inCell  bool
		inRow   bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "sp", "graphicFrame":
				if cur == nil {
					cur = &shape{}
					shapeAt = depth
				}
			}
			if cur == nil {
				continue
			}
			switch t.Name.Local {
			case "ph":
				cur.placeholder = attr(t, "type")
				if cur.placeholder == "" {
					cur.placeholder = "body"
				}
			case "off":
				if !cur.hasOffset {
					x, errX := strconv.ParseInt(attr(t, "x"), 10, 64)
					y, errY := strconv.ParseInt(attr(t, "y"), 10, 64)
					if errX == nil && errY == nil {
						cur.x, cur.y, cur.hasOffset = x, y, true
					}
				}
			case "tr":
				inRow, row = true, nil
			case "tc":
				inCell, cell = true, nil
			case "p":
				inPara = true
				para.Reset()
			case "t":
				inText = inPara
			case "br":
				if inPara {
					para.WriteByte(' ')
				}
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			if cur != nil {
				switch t.Name.Local {
				case "t":
					inText = false
				case "p":
					if inPara {
						line := strings.TrimSpace(para.String())
						if line != "" {
							if inCell {
								cell = append(cell, line)
							} else {
								cur.lines = append(cur.lines, line)
							}
						}
						inPara = false
					}
				case "tc":
					if inRow {
						row = append(row, strings.Join(cell, " "))
					}
					inCell = false
				case "tr":
					if line := joinCells(row); line != "" {
						cur.lines = append(cur.lines, line)
					}
					inRow = false
				}
				if depth == shapeAt && (t.Name.Local == "sp" || t.Name.Local == "graphicFrame") {
					shapes = append(shapes, *cur)
					cur = nil
				}
			}
			depth--
		}
	}
	return shapes, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func joinCells(cells []string) string {
	var nonEmpty []string
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return strings.Join(nonEmpty, " | ")
}

// orderShapes puts title shapes first, then the rest top-to-bottom, left-to-right.
// When any shape lacks an explicit offset the document order is kept.
func orderShapes(shapes []shape) []shape {
	var titles, body []shape
	allPositioned := true
	for _, s := range shapes {
		if s.isTitle() {
			titles = append(titles, s)
			continue
		}
		body = append(body, s)
		if !s.hasOffset {
			allPositioned = false
		}
	}
	if allPositioned {
		sort.SliceStable(body, func(i, j int) bool {
			if body[i].y != body[j].y {
				return body[i].y < body[j].y
			}
			return body[i].x < body[j].x
		})
	}
	return append(titles, body...)
}

func joinShapes(shapes []shape) string {
	var lines []string
	for _, s := range shapes {
		lines = append(lines, s.lines...)
	}
	return strings.Join(lines, "\n")
}
