package notion

import (
	"strings"

	"notioncal/internal/models"
)

// Page is a Notion page object, reduced to the fields the sync reads.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is one value from a page's property bag. Only the variant
// named by Type is populated; the others stay at their zero values.
type Property struct {
	Type     string     `json:"type"`
	Title    []RichText `json:"title"`
	RichText []RichText `json:"rich_text"`
	Date     *DateValue `json:"date"`
	Select   *Option    `json:"select"`
	Status   *Option    `json:"status"`
	Relation []Relation `json:"relation"`
}

// RichText is one fragment of a title or rich-text property.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// DateValue is the payload of a date property. End is "" for single
// dates.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Option is a select or status choice.
type Option struct {
	Name string `json:"name"`
}

// Relation points at a related page.
type Relation struct {
	ID string `json:"id"`
}

// Accepted property names per field, in priority order. The first
// populated match wins; later aliases are only consulted when earlier
// ones are missing or empty.
var (
	nameKeys    = []string{"Name", "Title"}
	dueKeys     = []string{"Due Date", "Due date", "Due"}
	eventIDKeys = []string{"GCal Event ID", "Google Calendar Event ID"}
)

// ExtractTask maps the raw property bag onto a Task. Missing or
// malformed properties become zero values; extraction never fails.
func ExtractTask(p Page) models.Task {
	task := models.Task{ID: p.ID, Name: "Untitled"}

	if name, ok := titleOf(p.Properties); ok {
		task.Name = name
	}

	for _, key := range dueKeys {
		if prop, ok := p.Properties[key]; ok && prop.Type == "date" && prop.Date != nil {
			task.Due = &models.DateRange{Start: prop.Date.Start, End: prop.Date.End}
			break
		}
	}

	if prop, ok := p.Properties["Status"]; ok {
		switch prop.Type {
		case "select":
			if prop.Select != nil {
				task.Status = prop.Select.Name
			}
		case "status":
			if prop.Status != nil {
				task.Status = prop.Status.Name
			}
		}
	}

	if prop, ok := p.Properties["Domain"]; ok && prop.Type == "relation" && len(prop.Relation) > 0 {
		// Only the first related page selects the calendar.
		task.DomainRef = prop.Relation[0].ID
	}

	for _, key := range eventIDKeys {
		if prop, ok := p.Properties[key]; ok && prop.Type == "rich_text" {
			task.EventID = joinText(prop.RichText)
			break
		}
	}

	return task
}

// titleOf returns the concatenated plain text of the first non-empty
// title-typed property among the accepted name keys.
func titleOf(props map[string]Property) (string, bool) {
	for _, key := range nameKeys {
		prop, ok := props[key]
		if !ok || prop.Type != "title" {
			continue
		}
		if text := joinText(prop.Title); text != "" {
			return text, true
		}
	}
	return "", false
}

func joinText(parts []RichText) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.PlainText)
	}
	return b.String()
}
