package model

// MealType is cafeteria reference data.
type MealType struct {
    ID   uint64 `json:"id"`   // meal_types.id
    Name string `json:"name"` // meal_types.name
}

// Facility is a bookable sports facility together with the operating rule
// inherited from its facility type.  OpeningTime and ClosingTime are
// "HH:MM:SS" times of day in the facility time zone.
type Facility struct {
    ID              uint64 `json:"facility_id"`
    Name            string `json:"facility_name"`
    Status          string `json:"facility_status"`
    LocationDetails string `json:"location_details"`
    TypeID          uint64 `json:"type_id"`
    TypeName        string `json:"type_name"`
    OpeningTime     string `json:"opening_time"`
    ClosingTime     string `json:"closing_time"`
    SlotMinutes     int    `json:"slot_duration_minutes"`
}

// FacilityRules is the subset of a facility type needed to compute slots.
type FacilityRules struct {
    FacilityID  uint64
    OpeningTime string
    ClosingTime string
    SlotMinutes int
}
