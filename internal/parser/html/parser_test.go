package html_test

import (
	"testing"

	"bennypowers.dev/cssvls/internal/parser/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantTags int
		wantAttr int
	}{
		{
			name:     "style tag",
			source:   `<html><head><style>:root { --a: red; }</style></head></html>`,
			wantTags: 1,
		},
		{
			name:     "style attributes",
			source:   `<div style="--a: red"></div><p style='color: var(--a)'></p>`,
			wantAttr: 2,
		},
		{
			name: "multiple styles",
			source: `<style>:root { --a: red; }</style>
<div style="color: var(--a)"></div>
<style>.b { color: var(--b); }</style>`,
			wantTags: 2,
			wantAttr: 1,
		},
		{
			name:   "no CSS",
			source: `<p class="x">--a: red;</p>`,
		},
		{
			name:   "empty attribute has no value node",
			source: `<div style=""></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := html.AcquireParser()
			defer html.ReleaseParser(parser)

			regions := parser.Regions(tt.source)

			tags := 0
			attrs := 0
			for _, r := range regions {
				switch r.Type {
				case html.StyleTag:
					tags++
				case html.StyleAttribute:
					attrs++
				}
			}

			assert.Equal(t, tt.wantTags, tags, "style tag count")
			assert.Equal(t, tt.wantAttr, attrs, "style attribute count")
		})
	}
}

func TestRegionOffsets(t *testing.T) {
	source := "<html>\n<style>\n:root { --a: red; }\n</style>\n<div style=\"color: var(--a)\"></div>"

	parser := html.AcquireParser()
	defer html.ReleaseParser(parser)

	regions := parser.Regions(source)
	require.Len(t, regions, 2)

	assert.Contains(t, source[regions[0].Start:regions[0].End], ":root { --a: red; }")
	assert.Equal(t, html.StyleTag, regions[0].Type)

	assert.Equal(t, "color: var(--a)", source[regions[1].Start:regions[1].End])
	assert.Equal(t, byte('"'), source[regions[1].Start-1], "attribute regions exclude the quotes")
}

func TestRegionShift(t *testing.T) {
	r := html.Region{Start: 2, End: 5, Type: html.StyleTag}
	assert.Equal(t, html.Region{Start: 12, End: 15, Type: html.StyleTag}, r.Shift(10))
}
