package model

// Business is the retail brand a row belongs to.
type Business string

const (
	BusinessBendeckTools Business = "bendeck_tools"
	BusinessLusqtoff     Business = "lusqtoff"
)

func (b Business) Valid() bool {
	return b == BusinessBendeckTools || b == BusinessLusqtoff
}

func (b Business) DisplayName() string {
	switch b {
	case BusinessBendeckTools:
		return "Bendeck Tools"
	case BusinessLusqtoff:
		return "Lüsqtoff"
	}
	return string(b)
}
