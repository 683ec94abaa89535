package orgnr

// Formatted holds the two renderings of an organization number.
type Formatted struct {
	Long  string `json:"long"`  // 6 digits, separator, 4 digits
	Short string `json:"short"` // 10 digits
}

// Format returns the long and short renderings. For sole proprietors aged
// 100 or more the long form uses "+" as separator, as the personnummer
// convention does, rather than the plain "-" used for every other number.
func (o OrganizationNumber) Format() Formatted {
	return o.rep().formatted()
}

// FormatString returns the long form when withSeparator is set, the short
// form otherwise.
func (o OrganizationNumber) FormatString(withSeparator bool) string {
	f := o.Format()
	if withSeparator {
		return f.Long
	}
	return f.Short
}

// String returns the long form.
func (o OrganizationNumber) String() string {
	return o.Format().Long
}
