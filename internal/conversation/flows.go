// Package conversation drives per-session slot-filling flows from resolved
// classifications.
package conversation

import (
	"github.com/clavisure/clavis/internal/model"
)

// SlotSpec is one slot a flow must collect, with its input validator.
type SlotSpec struct {
	Validate func(string) error
	Name     model.SlotName
}

// FlowSpec is the ordered slot list for one flow. A flow completes when
// every slot is filled and validated.
type FlowSpec struct {
	Flow  model.Flow
	Slots []SlotSpec
}

// Flow registry: every flow the state machine can drive, with its required
// slots in collection order.
var registry = map[model.Flow]FlowSpec{
	model.FlowQuote: {
		Flow: model.FlowQuote,
		Slots: []SlotSpec{
			{Name: model.SlotFullName, Validate: validateName},
			{Name: model.SlotEmail, Validate: validateEmail},
			{Name: model.SlotPhone, Validate: validatePhone},
			{Name: model.SlotInsuranceType, Validate: validateNonEmpty(model.SlotInsuranceType)},
			{Name: model.SlotCoverageDetails, Validate: validateNonEmpty(model.SlotCoverageDetails)},
		},
	},
	model.FlowAppointment: {
		Flow: model.FlowAppointment,
		Slots: []SlotSpec{
			{Name: model.SlotFullName, Validate: validateName},
			{Name: model.SlotEmail, Validate: validateEmail},
			{Name: model.SlotPreferredDate, Validate: validateDate},
			{Name: model.SlotPreferredTime, Validate: validateTime},
		},
	},
	model.FlowDocumentUpload: {
		Flow: model.FlowDocumentUpload,
		Slots: []SlotSpec{
			{Name: model.SlotDocumentType, Validate: validateNonEmpty(model.SlotDocumentType)},
			{Name: model.SlotDocumentNote, Validate: validateNonEmpty(model.SlotDocumentNote)},
		},
	},
}

// Spec returns the flow specification for f.
func Spec(f model.Flow) (FlowSpec, bool) {
	spec, ok := registry[f]
	return spec, ok
}
