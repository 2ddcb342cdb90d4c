package core

// Category is an entry of the fixed catalog offered to transaction forms.
// The model itself accepts free-form category labels; this list only feeds
// pickers and chart colors.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Categories is the built-in catalog.
var Categories = []Category{
	{Value: "comida", Label: "Comida", Color: "#F59E0B"},
	{Value: "transporte", Label: "Transporte", Color: "#3B82F6"},
	{Value: "entretenimiento", Label: "Entretenimiento", Color: "#8B5CF6"},
	{Value: "salud", Label: "Salud", Color: "#10B981"},
	{Value: "otros", Label: "Otros", Color: "#6B7280"},
}
