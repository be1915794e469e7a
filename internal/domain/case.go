package domain

// Case is a purchasable container yielding one randomly drawn item from a
// fixed eligible list.
//
// PossibleItemIDs is ordered and may contain the same id more than once; the
// draw picks a uniform index over the list, so repetition is the weighting
// mechanism.
type Case struct {
	CaseID          string   `json:"case_id" db:"case_id"`
	Name            string   `json:"name" db:"case_name"`
	ImageRef        string   `json:"image_ref" db:"image_ref"`
	Price           int      `json:"price" db:"price"`
	PossibleItemIDs []string `json:"possible_item_ids"`
}

// CaseUpdate carries a partial case update. Nil fields are left untouched.
type CaseUpdate struct {
	Name            *string  `json:"name,omitempty"`
	ImageRef        *string  `json:"image_ref,omitempty"`
	Price           *int     `json:"price,omitempty"`
	PossibleItemIDs []string `json:"possible_item_ids,omitempty"`
}
