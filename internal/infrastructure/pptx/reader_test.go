package pptx

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

const (
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkg = "http://schemas.openxmlformats.org/package/2006/relationships"

	relSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relNotes = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

// fixture describes a .pptx archive built on the fly.
type fixture struct {
	// slides holds slide XML bodies; order is the part numbering (slide1.xml, ...).
	slides []string
	// order lists 1-based part numbers in presentation order. Defaults to part order.
	order []int
	// notes maps a part number to its notes XML.
	notes map[int]string
	// omit lists part names left out of the archive.
	omit []string
}

func (f fixture) write(t *testing.T) string {
	t.Helper()

	parts := map[string]string{}
	order := f.order
	if order == nil {
		for i := range f.slides {
			order = append(order, i+1)
		}
	}

	var ids, rels strings.Builder
	for i, n := range order {
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, n)
	}
	for i := range f.slides {
		n := i + 1
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, n, relSlide, n)
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", n)] = f.slides[i]
	}
	parts["ppt/presentation.xml"] = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><p:presentation xmlns:p="%s" xmlns:r="%s"><p:sldIdLst>%s</p:sldIdLst></p:presentation>`, nsP, nsR, ids.String())
	parts["ppt/_rels/presentation.xml.rels"] = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="%s">%s</Relationships>`, nsPkg, rels.String())

	for n, notes := range f.notes {
		parts[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n)] = fmt.Sprintf(`<Relationships xmlns="%s"><Relationship Id="rId1" Type="%s" Target="../notesSlides/notesSlide%d.xml"/></Relationships>`, nsPkg, relNotes, n)
		parts[fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n)] = notes
	}
	for _, name := range f.omit {
		delete(parts, name)
	}

	path := filepath.Join(t.TempDir(), "deck.pptx")
	file, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(file)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())
	return path
}

func slideXML(shapes ...string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><p:sld xmlns:a="%s" xmlns:p="%s" xmlns:r="%s"><p:cSld><p:spTree>%s</p:spTree></p:cSld></p:sld>`,
		nsA, nsP, nsR, strings.Join(shapes, ""))
}

func notesXML(shapes ...string) string {
	return fmt.Sprintf(`<p:notes xmlns:a="%s" xmlns:p="%s"><p:cSld><p:spTree>%s</p:spTree></p:cSld></p:notes>`,
		nsA, nsP, strings.Join(shapes, ""))
}

// textShape builds a text shape. placeholder may be empty; a negative y omits the offset.
func textShape(placeholder string, x, y int, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<p:sp><p:nvSpPr><p:nvPr>`)
	if placeholder != "" {
		fmt.Fprintf(&b, `<p:ph type="%s"/>`, placeholder)
	}
	b.WriteString(`</p:nvPr></p:nvSpPr><p:spPr>`)
	if y >= 0 {
		fmt.Fprintf(&b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="100" cy="100"/></a:xfrm>`, x, y)
	}
	b.WriteString(`</p:spPr><p:txBody>`)
	for _, p := range paragraphs {
		fmt.Fprintf(&b, `<a:p><a:r><a:t>%s</a:t></a:r></a:p>`, p)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func tableFrame(x, y int, rows ...[]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:graphicFrame><p:xfrm><a:off x="%d" y="%d"/></p:xfrm><a:graphic><a:graphicData><a:tbl>`, x, y)
	for _, row := range rows {
		b.WriteString(`<a:tr>`)
		for _, c := range row {
			fmt.Fprintf(&b, `<a:tc><a:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></a:txBody></a:tc>`, c)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	return b.String()
}

func TestReader_ReadsSlidesInPresentationOrder(t *testing.T) {
	path := fixture{
		slides: []string{
			slideXML(textShape("title", 0, 0, "Second part")),
			slideXML(textShape("title", 0, 0, "First part")),
		},
		order: []int{2, 1},
	}.write(t)

	deck, err := NewReader(nil).Read(t.Context(), path)
	require.NoError(t, err)

	require.Len(t, deck.Slides, 2)
	assert.Equal(t, path, deck.Source)
	assert.Equal(t, 1, deck.Slides[0].Number)
	assert.Equal(t, "First part", deck.Slides[0].Text)
	assert.Equal(t, 2, deck.Slides[1].Number)
	assert.Equal(t, "Second part", deck.Slides[1].Text)
	assert.Empty(t, deck.Skipped)
}

func TestReader_ShapeOrdering(t *testing.T) {
	tests := []struct {
		name   string
		shapes []string
		want   string
	}{
		{
			name: "title first then top to bottom",
			shapes: []string{
				textShape("", 0, 3000, "Bottom text"),
				textShape("", 0, 1000, "Top text"),
				textShape("title", 0, 5000, "Title"),
			},
			want: "Title\nTop text\nBottom text",
		},
		{
			name: "left to right on the same row",
			shapes: []string{
				textShape("", 4000, 1000, "Right"),
				textShape("", 100, 1000, "Left"),
			},
			want: "Left\nRight",
		},
		{
			name: "document order when an offset is missing",
			shapes: []string{
				textShape("body", 0, -1, "Inherited position"),
				textShape("", 0, 10, "Positioned"),
			},
			want: "Inherited position\nPositioned",
		},
		{
			name: "multiple paragraphs",
			shapes: []string{
				textShape("", 0, 0, "Revenue grew 40%.", "", "Costs fell."),
			},
			want: "Revenue grew 40%.\nCosts fell.",
		},
		{
			name: "table rows",
			shapes: []string{
				textShape("title", 0, 0, "Metrics"),
				tableFrame(0, 500, []string{"Metric", "Value"}, []string{"Revenue", "$2M"}),
			},
			want: "Metrics\nMetric | Value\nRevenue | $2M",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := fixture{slides: []string{slideXML(tt.shapes...)}}.write(t)

			deck, err := NewReader(nil).Read(t.Context(), path)
			require.NoError(t, err)
			require.Len(t, deck.Slides, 1)
			assert.Equal(t, tt.want, deck.Slides[0].Text)
		})
	}
}

func TestReader_IncludesSpeakerNotes(t *testing.T) {
	path := fixture{
		slides: []string{slideXML(textShape("title", 0, 0, "Results"))},
		notes: map[int]string{
			1: notesXML(
				textShape("sldImg", 0, 0),
				textShape("body", 0, 0, "Mention the $3M revenue figure."),
				textShape("sldNum", 0, 0, "1"),
			),
		},
	}.write(t)

	deck, err := NewReader(nil).Read(t.Context(), path)
	require.NoError(t, err)
	require.Len(t, deck.Slides, 1)
	assert.Equal(t, "Results\nMention the $3M revenue figure.", deck.Slides[0].Text)
}

func TestReader_SkipsCorruptSlides(t *testing.T) {
	tests := []struct {
		name string
		fx   fixture
	}{
		{
			name: "malformed xml",
			fx: fixture{slides: []string{
				slideXML(textShape("", 0, 0, "one")),
				`<p:sld xmlns:p="` + nsP + `"><p:cSld><p:spTree><p:sp>`,
				slideXML(textShape("", 0, 0, "three")),
			}},
		},
		{
			name: "missing slide part",
			fx: fixture{
				slides: []string{
					slideXML(textShape("", 0, 0, "one")),
					slideXML(textShape("", 0, 0, "two")),
					slideXML(textShape("", 0, 0, "three")),
				},
				omit: []string{"ppt/slides/slide2.xml"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck, err := NewReader(nil).Read(t.Context(), tt.fx.write(t))
			require.NoError(t, err)

			require.Len(t, deck.Slides, 2)
			assert.Equal(t, 1, deck.Slides[0].Number)
			assert.Equal(t, "one", deck.Slides[0].Text)
			assert.Equal(t, 3, deck.Slides[1].Number)
			assert.Equal(t, "three", deck.Slides[1].Text)

			require.Len(t, deck.Skipped, 1)
			assert.Equal(t, 2, deck.Skipped[0].SlideNumber)
			assert.NotEmpty(t, deck.Skipped[0].Reason)
		})
	}
}

func TestReader_InvalidSources(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "broken.pptx")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip archive"), 0o600))

	wrongExt := filepath.Join(dir, "deck.key")
	require.NoError(t, os.WriteFile(wrongExt, []byte("x"), 0o600))

	dirPath := filepath.Join(dir, "folder.pptx")
	require.NoError(t, os.Mkdir(dirPath, 0o755))

	noPresentation := fixture{
		slides: []string{slideXML(textShape("", 0, 0, "one"))},
		omit:   []string{"ppt/presentation.xml"},
	}.write(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pptx")},
		{name: "not a zip archive", path: notZip},
		{name: "unsupported extension", path: wrongExt},
		{name: "directory", path: dirPath},
		{name: "missing presentation part", path: noPresentation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck, err := NewReader(nil).Read(t.Context(), tt.path)
			require.Error(t, err)
			assert.Nil(t, deck)
			assert.ErrorIs(t, err, entities.ErrInput)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestReader_Canceled(t *testing.T) {
	path := fixture{slides: []string{slideXML(textShape("", 0, 0, "one"))}}.write(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewReader(nil).Read(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
