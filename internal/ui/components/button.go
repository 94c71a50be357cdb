package components

import "github.com/a-h/templ"

type ButtonVariant string

const (
	ButtonPrimary ButtonVariant = "primary"
	ButtonDanger  ButtonVariant = "danger"
	ButtonGhost   ButtonVariant = "ghost"
)

var buttonVariants = map[ButtonVariant]string{
	ButtonPrimary: "bg-blue-600 text-white",
	ButtonDanger:  "bg-red-600 text-white",
	ButtonGhost:   "bg-transparent text-gray-700 border",
}

type ButtonProps struct {
	Label   string
	Type    string // "submit" (default) or "button"
	Variant ButtonVariant
	Class   string
	Attrs   templ.Attributes // e.g. htmx attributes
}

func (p ButtonProps) buttonType() string {
	if p.Type == "" {
		return "submit"
	}
	return p.Type
}

func (p ButtonProps) variantClass() string {
	if v, ok := buttonVariants[p.Variant]; ok {
		return v
	}
	return buttonVariants[ButtonPrimary]
}
