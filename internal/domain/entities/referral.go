package entities

// ReferralForm is the structured input of the referral-email composer.
// Fields left empty are omitted from the composed body.
type ReferralForm struct {
	PatientName    string   `json:"patientName"`
	DateOfBirth    string   `json:"dateOfBirth"`
	PatientPhone   string   `json:"patientPhone"`
	PatientEmail   string   `json:"patientEmail"`
	PatientAddress string   `json:"patientAddress"`
	MedicareNumber string   `json:"medicareNumber"`

	ReferralTypes  []string `json:"referralTypes"` // multi-select, joined with commas
	ClinicalNotes  string   `json:"clinicalNotes"`
	Location       string   `json:"location"`
	Urgency        string   `json:"urgency"`
	Cardiologist   string   `json:"cardiologist"` // preferred cardiologist, optional

	DoctorName     string   `json:"doctorName"`
	ProviderNumber string   `json:"providerNumber"`
	PracticeName   string   `json:"practiceName"`
	PracticePhone  string   `json:"practicePhone"`
}
