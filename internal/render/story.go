// Package render deterministically lays out a structured resume as a
// paginated PDF. Layout is computed as a flat list of flowables first, then
// written by the PDF backend, so the layout rules are testable on their own.
package render

import (
	"fmt"
	"strings"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

type flowKind int

const (
	flowParagraph flowKind = iota
	flowSpacer
	flowRule
)

type alignment int

const (
	alignLeft alignment = iota
	alignCenter
	alignJustify
)

type rgb struct{ r, g, b int }

var (
	colorBlack    = rgb{0x00, 0x00, 0x00}
	colorContact  = rgb{0x55, 0x55, 0x55}
	colorDuration = rgb{0x66, 0x66, 0x66}
	colorBody     = rgb{0x33, 0x33, 0x33}
	colorAccent   = rgb{0x2d, 0x55, 0xff}
	colorHairline = rgb{0xe0, 0xe0, 0xe0}
)

// textStyle mirrors a paragraph style sheet entry. All distances are points.
type textStyle struct {
	size        float64
	bold        bool
	color       rgb
	align       alignment
	leading     float64
	leftIndent  float64
	spaceBefore float64
	spaceAfter  float64
}

var (
	nameStyle     = textStyle{size: 22, bold: true, color: colorBlack, align: alignCenter, leading: 26, spaceAfter: 6}
	contactStyle  = textStyle{size: 9, color: colorContact, align: alignCenter, leading: 11, spaceAfter: 10}
	sectionStyle  = textStyle{size: 11, bold: true, color: colorAccent, leading: 13, spaceBefore: 12, spaceAfter: 6}
	jobTitleStyle = textStyle{size: 10, bold: true, color: colorBlack, leading: 12, spaceAfter: 2}
	durationStyle = textStyle{size: 9, color: colorDuration, leading: 11, spaceAfter: 5}
	bulletStyle   = textStyle{size: 9, color: colorBody, leading: 13, leftIndent: 15, spaceAfter: 3}
	bodyStyle     = textStyle{size: 9, color: colorBody, align: alignJustify, leading: 13, spaceAfter: 5}
)

// flowable is one layout element: a styled paragraph, a vertical spacer, or a
// horizontal rule.
type flowable struct {
	kind       flowKind
	text       string
	boldPrefix string // leading bold run for mixed-weight lines
	style      textStyle
	height     float64 // spacer height, points
	thickness  float64 // rule thickness, points
	color      rgb     // rule color
	spaceAfter float64 // rule trailing space, points
}

func paragraph(text string, style textStyle) flowable {
	return flowable{kind: flowParagraph, text: text, style: style}
}

func spacer(inches float64) flowable {
	return flowable{kind: flowSpacer, height: inches * 72}
}

func rule(thickness float64, color rgb, spaceAfter float64) flowable {
	return flowable{kind: flowRule, thickness: thickness, color: color, spaceAfter: spaceAfter}
}

// sectionHeader emits the uppercase heading plus the accent rule below it.
func sectionHeader(title string) []flowable {
	return []flowable{
		paragraph(title, sectionStyle),
		rule(1.5, colorAccent, 6),
	}
}

// buildStory converts a structured resume into the ordered flowable list.
// Sections are emitted only when their field is present and non-empty; all
// text is rendered verbatim except the name, which is uppercased.
func buildStory(content types.StructuredResume) []flowable {
	story := []flowable{}

	name := content.Name
	if name == "" {
		name = "Professional"
	}
	story = append(story, paragraph(strings.ToUpper(name), nameStyle))
	story = append(story, spacer(0.05))

	var parts []string
	for _, part := range []string{content.Contact.Email, content.Contact.Phone, content.Contact.Location, content.Contact.LinkedIn} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	story = append(story, paragraph(strings.Join(parts, " | "), contactStyle))
	story = append(story, spacer(0.1))
	story = append(story, rule(0.5, colorHairline, 10))

	if content.Summary != "" {
		story = append(story, sectionHeader("PROFESSIONAL SUMMARY")...)
		story = append(story, paragraph(content.Summary, bodyStyle))
		story = append(story, spacer(0.08))
	}

	if len(content.Experience) > 0 {
		story = append(story, sectionHeader("PROFESSIONAL EXPERIENCE")...)
		for i, exp := range content.Experience {
			title := exp.Title
			if title == "" {
				title = "Position"
			}
			company := exp.Company
			if company == "" {
				company = "Company"
			}
			story = append(story, paragraph(fmt.Sprintf("%s - %s", title, company), jobTitleStyle))
			if exp.Duration != "" {
				story = append(story, paragraph(exp.Duration, durationStyle))
			}
			for _, achievement := range exp.Achievements {
				story = append(story, paragraph("• "+achievement, bulletStyle))
			}
			if i < len(content.Experience)-1 {
				story = append(story, spacer(0.1))
			}
		}
		story = append(story, spacer(0.08))
	}

	if len(content.Education) > 0 {
		story = append(story, sectionHeader("EDUCATION")...)
		for _, edu := range content.Education {
			degree := edu.Degree
			if degree == "" {
				degree = "Degree"
			}
			institution := edu.Institution
			if institution == "" {
				institution = "School"
			}
			line := " - " + institution
			if edu.Year != "" {
				line += fmt.Sprintf(" (%s)", edu.Year)
			}
			if edu.GPA != "" {
				line += fmt.Sprintf(" | GPA: %s", edu.GPA)
			}
			entry := paragraph(line, bodyStyle)
			entry.boldPrefix = degree
			story = append(story, entry)
		}
		story = append(story, spacer(0.08))
	}

	if len(content.Skills) > 0 {
		story = append(story, sectionHeader("TECHNICAL SKILLS")...)
		story = append(story, paragraph(strings.Join(content.Skills, " • "), bodyStyle))
		story = append(story, spacer(0.08))
	}

	if len(content.Certifications) > 0 {
		story = append(story, sectionHeader("CERTIFICATIONS")...)
		for _, cert := range content.Certifications {
			story = append(story, paragraph("• "+cert, bulletStyle))
		}
		story = append(story, spacer(0.08))
	}

	if len(content.Languages) > 0 {
		story = append(story, sectionHeader("LANGUAGES")...)
		story = append(story, paragraph(strings.Join(content.Languages, " • "), bodyStyle))
		story = append(story, spacer(0.08))
	}

	if len(content.Projects) > 0 {
		story = append(story, sectionHeader("PROJECTS")...)
		for _, project := range content.Projects {
			story = append(story, paragraph("• "+project, bulletStyle))
		}
	}

	return story
}
