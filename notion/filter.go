package notion

// Filter describes a database query filter. Compound filters set And;
// property filters set Property plus exactly one condition.
type Filter struct {
	And      []Filter
	Property string
	Date     *DateCondition
	Select   *SelectCondition
}

// DateCondition compares against a YYYY-MM-DD day sent unchanged.
type DateCondition struct {
	Equals    string
	OnOrAfter string
}

type SelectCondition struct {
	Equals       string
	DoesNotEqual string
}

func And(filters ...Filter) Filter {
	return Filter{And: filters}
}

func DateEquals(property, day string) Filter {
	return Filter{Property: property, Date: &DateCondition{Equals: day}}
}

func DateOnOrAfter(property, day string) Filter {
	return Filter{Property: property, Date: &DateCondition{OnOrAfter: day}}
}

func SelectDoesNotEqual(property, option string) Filter {
	return Filter{Property: property, Select: &SelectCondition{DoesNotEqual: option}}
}
