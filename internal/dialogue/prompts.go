package dialogue

import "fmt"

// Prompts builds every utterance the system speaks. Keeping them in one
// place makes the voice consistent and the policy code free of copy.
type Prompts struct {
	// RestaurantName is spoken in the greeting and closing lines.
	RestaurantName string
}

func (p Prompts) name() string {
	if p.RestaurantName == "" {
		return "our restaurant"
	}
	return p.RestaurantName
}

func (p Prompts) Greeting() string {
	return fmt.Sprintf("Hello! Welcome to %s.", p.name())
}

func (p Prompts) Ask(f Field) string {
	switch f {
	case FieldName:
		return "May I have your name for the reservation?"
	case FieldDate:
		return "What date would you like to make your reservation for?"
	case FieldTime:
		return "What time would you prefer?"
	case FieldPartySize:
		return "How many people will be in your party?"
	case FieldSpecialRequests:
		return "Do you have any special requests or dietary requirements?"
	}
	return p.Clarify()
}

func (p Prompts) Clarify() string {
	return "I'm sorry, I didn't catch that clearly."
}

// Confirm reads the captured details back and asks for a yes or no.
func (p Prompts) Confirm(s *Session) string {
	b := s.Booking()
	return fmt.Sprintf(
		"Let me confirm your reservation. %s, you'd like to book for %s at %s. Is that correct?",
		b.Name,
		b.Date.Format("Monday, January 2"),
		b.Time.Speakable(),
	)
}

func (p Prompts) Confirmed(s *Session) string {
	b := s.Booking()
	return fmt.Sprintf(
		"Excellent! Your reservation for %s at %s has been confirmed. We look forward to serving you at %s. Goodbye!",
		b.Date.Format("Monday, January 2"),
		b.Time.Speakable(),
		p.name(),
	)
}

func (p Prompts) Correction() string {
	return "No problem, let's fix that."
}

// PersistFailure is spoken when the reservation could not be saved. It must
// never claim the booking succeeded.
func (p Prompts) PersistFailure() string {
	return "I'm very sorry, something went wrong while saving your reservation. Please call us back to complete your booking. Goodbye."
}

func (p Prompts) TurnLimit() string {
	return fmt.Sprintf("I'm sorry, I wasn't able to complete your reservation today. Please call %s again later. Goodbye!", p.name())
}

func (p Prompts) Goodbye() string {
	return fmt.Sprintf("Thank you for calling %s. Have a wonderful day!", p.name())
}
