package pricing

import (
	"fmt"
	"strings"
)

func requireScope(businessID, industryID string) error {
	if businessID == "" || industryID == "" {
		return ErrMissingScope
	}
	return nil
}

// ValidateParameter checks required fields and scans the already-loaded
// siblings for a name collision within the same category. The scan excludes
// the record itself so renames to the same name stay legal.
func ValidateParameter(p PricingParameter, siblings []PricingParameter) error {
	if err := requireScope(p.BusinessID, p.IndustryID); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: category", ErrMissingField)
	}

	name := strings.ToLower(strings.TrimSpace(p.Name))
	for _, s := range siblings {
		if s.ID == p.ID {
			continue
		}
		if s.Category == p.Category && strings.ToLower(strings.TrimSpace(s.Name)) == name {
			return fmt.Errorf("%w: %q in %q", ErrDuplicateName, p.Name, p.Category)
		}
	}
	return nil
}

// ValidateExtra checks required fields.
func ValidateExtra(e Extra) error {
	if err := requireScope(e.BusinessID, e.IndustryID); err != nil {
		return err
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	return nil
}

// ValidateFrequency checks required fields.
func ValidateFrequency(f Frequency) error {
	if err := requireScope(f.BusinessID, f.IndustryID); err != nil {
		return err
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	return nil
}

// ValidateLocation checks required fields.
func ValidateLocation(l Location) error {
	if err := requireScope(l.BusinessID, l.IndustryID); err != nil {
		return err
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	return nil
}
