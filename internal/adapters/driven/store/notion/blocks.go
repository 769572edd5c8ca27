package notion

import (
	"regexp"
	"strings"

	"github.com/jomei/notionapi"
)

// maxRunLength is Notion's cap on a single rich text run. Longer text is
// split into multiple runs (or multiple blocks for plain paragraphs), on
// exact rune boundaries so reassembly recovers the original text.
const maxRunLength = 2000

// lineKind tags one lexed line of a markdown-like dossier.
type lineKind int

const (
	// kindHeading is a level-1 header ("# ..."). Rendered as heading_2
	// since the page title occupies the h1 slot.
	kindHeading lineKind = iota

	// kindSubheading is a level-2 header ("## ...") or a standalone
	// bold-only line like "**Background:**".
	kindSubheading

	// kindBullet is a "- " or "* " list item.
	kindBullet

	// kindParagraph is everything else.
	kindParagraph
)

// span is one rich text run with its style.
type span struct {
	text string
	bold bool
}

// mdLine is one lexed line carrying already-split rich text spans.
type mdLine struct {
	kind  lineKind
	spans []span
}

var (
	boldRun       = regexp.MustCompile(`\*\*.*?\*\*`)
	boldOnlyLine  = regexp.MustCompile(`^\*\*[^*]+\*\*\s*$`)
	headingMarker = "# "
	subheadMarker = "## "
	bulletMarkers = []string{"- ", "* "}
)

// lexDossier converts markdown-like dossier text into a tagged line
// sequence. Blank lines are dropped; markdown punctuation (header markers,
// bullet markers, bold markers) is consumed, all content is preserved.
func lexDossier(text string) []mdLine {
	var lines []mdLine
	for _, raw := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(raw)
		if stripped == "" {
			continue
		}

		switch {
		case strings.HasPrefix(stripped, subheadMarker):
			lines = append(lines, mdLine{
				kind:  kindSubheading,
				spans: []span{{text: strings.TrimSpace(stripped[len(subheadMarker):])}},
			})

		case strings.HasPrefix(stripped, headingMarker):
			lines = append(lines, mdLine{
				kind:  kindHeading,
				spans: []span{{text: strings.TrimSpace(stripped[len(headingMarker):])}},
			})

		case boldOnlyLine.MatchString(stripped):
			// Section header written as "**Background:**" - strip the
			// markers and the trailing colon.
			heading := strings.Trim(stripped, "* ")
			heading = strings.TrimRight(heading, ":")
			lines = append(lines, mdLine{
				kind:  kindSubheading,
				spans: []span{{text: heading}},
			})

		case hasBulletMarker(stripped):
			item := strings.TrimSpace(stripped[2:])
			lines = append(lines, mdLine{
				kind:  kindBullet,
				spans: lexSpans(item),
			})

		default:
			lines = append(lines, mdLine{
				kind:  kindParagraph,
				spans: lexSpans(stripped),
			})
		}
	}
	return lines
}

func hasBulletMarker(s string) bool {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

// lexSpans splits a line into plain and bold spans, consuming the **
// markers. Empty bold runs ("****") contribute nothing.
func lexSpans(text string) []span {
	var spans []span
	rest := text
	for {
		loc := boldRun.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if before := rest[:loc[0]]; before != "" {
			spans = append(spans, span{text: before})
		}
		if content := rest[loc[0]+2 : loc[1]-2]; content != "" {
			spans = append(spans, span{text: content, bold: true})
		}
		rest = rest[loc[1]:]
	}
	if rest != "" {
		spans = append(spans, span{text: rest})
	}
	if len(spans) == 0 {
		spans = []span{{text: ""}}
	}
	return spans
}

// dossierBlocks renders a markdown-like dossier into Notion blocks.
func dossierBlocks(text string) []notionapi.Block {
	lines := lexDossier(text)
	blocks := make([]notionapi.Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, renderLine(line))
	}
	return blocks
}

// renderLine converts one lexed line into its destination block kind.
func renderLine(line mdLine) notionapi.Block {
	rich := richText(line.spans)

	switch line.kind {
	case kindHeading:
		return &notionapi.Heading2Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
			Heading2:   notionapi.Heading{RichText: rich},
		}
	case kindSubheading:
		return &notionapi.Heading3Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
			Heading3:   notionapi.Heading{RichText: rich},
		}
	case kindBullet:
		return &notionapi.BulletedListItemBlock{
			BasicBlock:       basicBlock(notionapi.BlockTypeBulletedListItem),
			BulletedListItem: notionapi.ListItem{RichText: rich},
		}
	default:
		return &notionapi.ParagraphBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
			Paragraph:  notionapi.Paragraph{RichText: rich},
		}
	}
}

// headingBlock renders a fixed section header (Dossier, Raw Note, ...).
func headingBlock(text string) notionapi.Block {
	return &notionapi.Heading3Block{
		BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
		Heading3:   notionapi.Heading{RichText: richText([]span{{text: text}})},
	}
}

// dividerBlock separates the dossier from the bookkeeping sections.
func dividerBlock() notionapi.Block {
	return &notionapi.DividerBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeDivider),
		Divider:    notionapi.Divider{},
	}
}

// paragraphBlocks renders plain text as paragraph blocks, one block per
// run-length chunk.
func paragraphBlocks(text string) []notionapi.Block {
	chunks := chunkRunes(text, maxRunLength)
	blocks := make([]notionapi.Block, 0, len(chunks))
	for _, chunk := range chunks {
		blocks = append(blocks, &notionapi.ParagraphBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
			Paragraph: notionapi.Paragraph{
				RichText: []notionapi.RichText{textRun(chunk, false)},
			},
		})
	}
	return blocks
}

// richText converts spans into rich text runs, splitting each span at the
// run-length cap. Bold survives the split: every sub-run of a bold span is
// bold.
func richText(spans []span) []notionapi.RichText {
	var runs []notionapi.RichText
	for _, sp := range spans {
		for _, chunk := range chunkRunes(sp.text, maxRunLength) {
			runs = append(runs, textRun(chunk, sp.bold))
		}
	}
	return runs
}

func basicBlock(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   t,
	}
}

func textRun(content string, bold bool) notionapi.RichText {
	run := notionapi.RichText{
		Text: &notionapi.Text{Content: content},
	}
	if bold {
		run.Annotations = &notionapi.Annotations{Bold: true}
	}
	return run
}

// chunkRunes splits s into chunks of at most max runes. Splitting on rune
// boundaries never breaks a multi-byte sequence, and concatenating the
// chunks in order reconstructs s exactly. Empty input yields one empty
// chunk so callers always emit at least one run.
func chunkRunes(s string, max int) []string {
	if s == "" {
		return []string{""}
	}

	var chunks []string
	runes := []rune(s)
	for len(runes) > max {
		chunks = append(chunks, string(runes[:max]))
		runes = runes[max:]
	}
	chunks = append(chunks, string(runes))
	return chunks
}
