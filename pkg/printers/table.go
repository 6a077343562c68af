package printers

import (
	"fmt"

	"github.com/gosuri/uitable"

	"tableflip.dev/haru/pkg/model"
)

// Members prints the room membership as a table.
func (pp *PrettyPrint) Members(code string, members []model.User, selfID string) {
	pp.Title(fmt.Sprintf("room %s", code))
	if len(members) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	table.AddRow("NAME", "COLOR", "")
	for _, m := range members {
		tag := ""
		if m.ID == selfID {
			tag = "(you)"
		}
		table.AddRow(m.Name, m.Color, tag)
	}
	fmt.Println(table)
	fmt.Println()
}

// Categories prints the category set as a table.
func (pp *PrettyPrint) Categories(categories []model.Category) {
	pp.TitleWithCount("categories", len(categories))
	if len(categories) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	table.AddRow("ID", "NAME", "COLOR", "ICON")
	for _, c := range categories {
		id := c.ID
		if len(id) > 8 {
			id = id[:8]
		}
		table.AddRow(id, c.Name, c.Color, c.Icon)
	}
	fmt.Println(table)
	fmt.Println()
}
