package notion

import (
	"encoding/json"
	"time"

	"github.com/jomei/notionapi"
)

func apiFilter(f Filter) notionapi.Filter {
	if len(f.And) > 0 {
		and := make(notionapi.AndCompoundFilter, 0, len(f.And))
		for _, child := range f.And {
			and = append(and, apiFilter(child))
		}
		return &and
	}
	if f.Date != nil {
		return &dayFilter{
			PropertyFilter: &notionapi.PropertyFilter{Property: f.Property},
			condition:      *f.Date,
		}
	}
	filter := notionapi.PropertyFilter{Property: f.Property}
	if f.Select != nil {
		filter.Select = &notionapi.SelectFilterCondition{
			Equals:       f.Select.Equals,
			DoesNotEqual: f.Select.DoesNotEqual,
		}
	}
	return &filter
}

// dayFilter is a date property filter whose day is encoded exactly as given.
// notionapi.DateFilterCondition holds time values, which would turn the
// day into a timestamp.
type dayFilter struct {
	*notionapi.PropertyFilter
	condition DateCondition
}

func (f dayFilter) MarshalJSON() ([]byte, error) {
	type dateCondition struct {
		Equals    string `json:"equals,omitempty"`
		OnOrAfter string `json:"on_or_after,omitempty"`
	}
	return json.Marshal(struct {
		Property string        `json:"property"`
		Date     dateCondition `json:"date"`
	}{
		Property: f.Property,
		Date:     dateCondition{Equals: f.condition.Equals, OnOrAfter: f.condition.OnOrAfter},
	})
}

func pageFromAPI(page notionapi.Page) Page {
	props := make(map[string]Property, len(page.Properties))
	for name, prop := range page.Properties {
		props[name] = propertyFromAPI(prop)
	}
	return Page{ID: string(page.ID), URL: page.URL, Properties: props}
}

func propertyFromAPI(prop notionapi.Property) Property {
	out := Property{Type: string(prop.GetType())}
	switch p := prop.(type) {
	case *notionapi.PeopleProperty:
		out.People = make([]User, 0, len(p.People))
		for _, user := range p.People {
			out.People = append(out.People, User{ID: string(user.ID), Name: user.Name})
		}
	case *notionapi.StatusProperty:
		if p.Status.Name != "" {
			out.Status = &Option{Name: p.Status.Name}
		}
	case *notionapi.SelectProperty:
		if p.Select.Name != "" {
			out.Select = &Option{Name: p.Select.Name}
		}
	case *notionapi.DateProperty:
		if p.Date != nil && p.Date.Start != nil {
			out.Date = &DateValue{Start: formatDate(p.Date.Start), End: formatDate(p.Date.End)}
		}
	case *notionapi.RichTextProperty:
		out.RichText = richTextFromAPI(p.RichText)
	case *notionapi.TitleProperty:
		out.Title = richTextFromAPI(p.Title)
	}
	return out
}

func richTextFromAPI(segments []notionapi.RichText) []RichText {
	out := make([]RichText, 0, len(segments))
	for _, segment := range segments {
		out = append(out, RichText{PlainText: segment.PlainText, Href: segment.Href})
	}
	return out
}

// formatDate renders midnight UTC, which is how all-day values decode, as
// YYYY-MM-DD and everything else as RFC 3339.
func formatDate(d *notionapi.Date) string {
	if d == nil {
		return ""
	}
	t := time.Time(*d)
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
