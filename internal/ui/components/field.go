package components

type FieldProps struct {
	Type         string
	Name         string
	Placeholder  string
	Value        string
	Autocomplete string
	Required     bool
}
