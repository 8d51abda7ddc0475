// Package mailto composes mailto: URIs for the two mail-client handoffs the
// site offers: emailing a generated procedure guide and sending a patient
// referral. The server never sends mail; it hands a fully composed URI back
// to the frontend, which opens the visitor's mail client.
package mailto

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
)

// encode percent-encodes a mailto subject or body component. QueryEscape
// encodes spaces as "+", which mail clients render literally, so they are
// re-encoded as %20. Newlines become %0A.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// buildURI assembles a mailto: URI from its parts
func buildURI(to, subject, body string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", to, encode(subject), encode(body))
}

// Composer builds mailto URIs with the clinic's configured addresses
type Composer struct {
	clinicName    string
	referralEmail string
	guideEmail    string
}

// NewComposer creates a mailto composer
func NewComposer(clinicName, referralEmail, guideEmail string) *Composer {
	return &Composer{
		clinicName:    clinicName,
		referralEmail: referralEmail,
		guideEmail:    guideEmail,
	}
}

// GuideEmail composes the mailto URI used to email a generated guide. Mail
// clients cannot receive an attachment through a mailto link, so the body
// names the selected procedures and instructs the sender to attach the
// downloaded file manually.
func (c *Composer) GuideEmail(procedureNames []string) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("Please find my procedure information guide for the following procedures:\n\n")
	for _, name := range procedureNames {
		b.WriteString("- " + name + "\n")
	}
	b.WriteString("\nNote: the guide PDF has been downloaded to your device. ")
	b.WriteString("Please attach it to this email manually before sending, as email links cannot attach files automatically.\n\n")
	b.WriteString("Kind regards")

	subject := fmt.Sprintf("%s - Procedure Information Guide", c.clinicName)
	return buildURI(c.guideEmail, subject, b.String())
}

// section appends "label: value" to the body, skipping empty values
func section(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

// ReferralEmail composes the referral mailto URI from the structured form.
// Sections appear in a fixed order; empty fields are omitted and
// multi-select fields are comma-joined.
func (c *Composer) ReferralEmail(form *entities.ReferralForm) string {
	var b strings.Builder

	b.WriteString("NEW PATIENT REFERRAL\n\n")

	b.WriteString("--- Patient Details ---\n")
	section(&b, "Patient Name", form.PatientName)
	section(&b, "Date of Birth", form.DateOfBirth)
	section(&b, "Phone", form.PatientPhone)
	section(&b, "Email", form.PatientEmail)
	section(&b, "Address", form.PatientAddress)
	section(&b, "Medicare Number", form.MedicareNumber)

	b.WriteString("\n--- Referral Details ---\n")
	section(&b, "Referral For", strings.Join(form.ReferralTypes, ", "))
	section(&b, "Clinical Notes", form.ClinicalNotes)
	section(&b, "Preferred Location", form.Location)
	section(&b, "Urgency", form.Urgency)
	section(&b, "Preferred Cardiologist", form.Cardiologist)

	b.WriteString("\n--- Referring Doctor ---\n")
	section(&b, "Doctor Name", form.DoctorName)
	section(&b, "Provider Number", form.ProviderNumber)
	section(&b, "Practice Name", form.PracticeName)
	section(&b, "Practice Phone", form.PracticePhone)

	subject := "New Patient Referral"
	if form.PatientName != "" {
		subject = fmt.Sprintf("New Patient Referral - %s", form.PatientName)
	}
	return buildURI(c.referralEmail, subject, b.String())
}
