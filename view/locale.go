package view

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// TimeFormatter renders the timestamp of an outgoing message.
type TimeFormatter func(time.Time) string

const (
	layout24h = "15:04:05"
	layout12h = "3:04:05 PM"
)

// The first entry is the fallback for locales that match nothing.
var timeLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.BritishEnglish, layout24h},
	{language.AmericanEnglish, layout12h},
	{language.MustParse("en-CA"), layout12h},
	{language.MustParse("en-AU"), layout12h},
	{language.MustParse("en-NZ"), layout12h},
	{language.MustParse("en-IN"), layout12h},
	{language.MustParse("en-PH"), layout12h},
	{language.Korean, layout12h},
	{language.MustParse("zh-TW"), layout12h},
	{language.MustParse("hi-IN"), layout12h},
	{language.MustParse("zh-CN"), layout24h},
	{language.German, layout24h},
	{language.French, layout24h},
	{language.Spanish, layout24h},
	{language.Russian, layout24h},
}

var timeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(timeLayouts))
	for i, l := range timeLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// TimeLayout returns the clock layout used by tag: 12-hour for the locales
// listed with it (US-style English, Korean, Traditional Chinese, Hindi), 24-hour
// everywhere else. The list covers common locales only; anything unlisted gets
// the 24-hour clock.
func TimeLayout(tag language.Tag) string {
	_, i, conf := timeMatcher.Match(tag)
	if conf == language.No {
		return timeLayouts[0].layout
	}
	return timeLayouts[i].layout
}

// LocaleTimeFormatter formats local wall-clock time the way tag's users read it.
func LocaleTimeFormatter(tag language.Tag) TimeFormatter {
	layout := TimeLayout(tag)
	return func(t time.Time) string {
		return t.Local().Format(layout)
	}
}

// TagFromEnv reads the POSIX locale variables in priority order. Unset, "C"
// and "POSIX" locales fall back to American English.
func TagFromEnv() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		return ParseLocale(v)
	}
	return language.AmericanEnglish
}

// ParseLocale turns a POSIX locale such as "de_DE.UTF-8@euro" into a tag.
func ParseLocale(v string) language.Tag {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}
