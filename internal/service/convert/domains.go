package convert

import "sitecraft/internal/domain/models/schema"

type domainField struct {
	Name     string
	Label    string
	Type     schema.FieldType
	Priority schema.Priority
}

// commonDomainFields are added to every conversion, whatever the domain
var commonDomainFields = []domainField{
	{Name: "business_name", Label: "Business Name", Type: schema.FieldText, Priority: schema.PriorityHigh},
	{Name: "logo", Label: "Logo", Type: schema.FieldImage, Priority: schema.PriorityMedium},
}

var domainFields = map[schema.Domain][]domainField{
	schema.DomainLeadGeneration: {
		{Name: "phone_number", Label: "Phone Number", Type: schema.FieldText, Priority: schema.PriorityHigh},
		{Name: "email_address", Label: "Email Address", Type: schema.FieldEmail, Priority: schema.PriorityHigh},
		{Name: "whatsapp_number", Label: "WhatsApp Number", Type: schema.FieldText, Priority: schema.PriorityHigh},
	},
	schema.DomainSales: {
		{Name: "price", Label: "Price", Type: schema.FieldText, Priority: schema.PriorityHigh},
		{Name: "discount_percentage", Label: "Discount", Type: schema.FieldText, Priority: schema.PriorityMedium},
		{Name: "checkout_url", Label: "Checkout Link", Type: schema.FieldURL, Priority: schema.PriorityHigh},
	},
	schema.DomainServices: {
		{Name: "phone_number", Label: "Phone Number", Type: schema.FieldText, Priority: schema.PriorityHigh},
		{Name: "service_area", Label: "Service Area", Type: schema.FieldText, Priority: schema.PriorityMedium},
		{Name: "address", Label: "Address", Type: schema.FieldText, Priority: schema.PriorityMedium},
	},
	schema.DomainEvents: {
		{Name: "event_name", Label: "Event Name", Type: schema.FieldText, Priority: schema.PriorityHigh},
		{Name: "event_date", Label: "Event Date", Type: schema.FieldDate, Priority: schema.PriorityHigh},
		{Name: "event_location", Label: "Event Location", Type: schema.FieldText, Priority: schema.PriorityMedium},
		{Name: "ticket_url", Label: "Ticket Link", Type: schema.FieldURL, Priority: schema.PriorityHigh},
	},
}

// KnownDomain reports whether d has its own field table
func KnownDomain(d schema.Domain) bool {
	_, ok := domainFields[d]
	return ok
}

func domainCandidates(d schema.Domain) []schema.Candidate {
	fields := append(append([]domainField{}, commonDomainFields...), domainFields[d]...)
	out := make([]schema.Candidate, 0, len(fields))
	for _, f := range fields {
		out = append(out, schema.Candidate{
			InferredFieldName: f.Name,
			InferredFieldType: f.Type,
			Label:             f.Label,
			Priority:          f.Priority,
			Origin:            schema.OriginDomainFixed,
		})
	}
	return out
}
