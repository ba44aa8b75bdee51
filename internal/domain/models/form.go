package models

type FormKind int

const (
	FormClosed FormKind = iota
	FormCreating
	FormEditing
)

func (k FormKind) String() string {
	switch k {
	case FormClosed:
		return "closed"
	case FormCreating:
		return "creating"
	case FormEditing:
		return "editing"
	default:
		return "unknown"
	}
}

type FormField string

const (
	FieldName FormField = "name"
	FieldURL  FormField = "url"
	FieldType FormField = "type"
)

type FormData struct {
	Name string
	URL  string
	Type SourceType
}

func EmptyFormData() FormData {
	return FormData{Type: SourceTypeWeb}
}

// FormSlot é o único slot de edição: fechado, criando ou editando(id).
// Abrir uma edição sobrescreve o que estava no slot.
type FormSlot struct {
	Kind      FormKind
	EditingID int64
	Data      FormData
}

func (s FormSlot) IsEditing(id int64) bool {
	return s.Kind == FormEditing && s.EditingID == id
}
