package tools

import (
	"context"

	"voicedesk/app/service/coffee"
	"voicedesk/app/service/wellness"
)

const (
	RecordMoodAndEnergy = "record_mood_and_energy"
	RecordObjectives    = "record_objectives"
	CompleteCheckin     = "complete_checkin"

	SetOrderField  = "set_order_field"
	AddExtra       = "add_extra"
	GetOrderStatus = "get_order_status"
	SaveOrder      = "save_order"
)

func Wellness() []Tool[*wellness.Session] {
	return []Tool[*wellness.Session]{
		{
			Name:        RecordMoodAndEnergy,
			Description: "Record how the user is feeling. Call this after the user describes their state.",
			Params: []Param{
				{Name: "mood", Type: TypeString, Required: true,
					Description: "The user's emotional state (e.g., happy, stressed, anxious)"},
				{Name: "energy", Type: TypeString, Required: true,
					Description: "The user's energy level (e.g., high, low, drained, energetic)"},
			},
			Call: func(ctx context.Context, s *wellness.Session, args Args) (string, error) {
				return s.RecordMoodAndEnergy(ctx, args.String("mood"), args.String("energy")), nil
			},
		},
		{
			Name:        RecordObjectives,
			Description: "Record the user's daily goals. Call this when user states what they want to do.",
			Params: []Param{
				{Name: "objectives", Type: TypeStringList, Required: true,
					Description: "List of 1-3 specific goals the user wants to achieve today"},
			},
			Call: func(ctx context.Context, s *wellness.Session, args Args) (string, error) {
				return s.RecordObjectives(ctx, args.Strings("objectives")), nil
			},
		},
		{
			Name:        CompleteCheckin,
			Description: "Finalize the session, provide a recap, and save the check-in. Call at the very end.",
			Params: []Param{
				{Name: "final_advice_summary", Type: TypeString, Required: true,
					Description: "A brief 1-sentence summary of the advice given"},
			},
			Call: func(ctx context.Context, s *wellness.Session, args Args) (string, error) {
				return s.CompleteCheckin(ctx, args.String("final_advice_summary"))
			},
		},
	}
}

func Coffee() []Tool[*coffee.Session] {
	return []Tool[*coffee.Session]{
		{
			Name:        SetOrderField,
			Description: "Set one detail of the current order: drinkType, size, milk or name.",
			Params: []Param{
				{Name: "field", Type: TypeString, Required: true,
					Description: "One of drinkType, size, milk, name"},
				{Name: "value", Type: TypeString, Required: true,
					Description: "The value the customer asked for"},
			},
			Call: func(ctx context.Context, s *coffee.Session, args Args) (string, error) {
				return s.SetField(ctx, args.String("field"), args.String("value")), nil
			},
		},
		{
			Name:        AddExtra,
			Description: "Add one extra to the current order, such as a syrup or an extra shot.",
			Params: []Param{
				{Name: "extra", Type: TypeString, Required: true,
					Description: "The extra to add"},
			},
			Call: func(ctx context.Context, s *coffee.Session, args Args) (string, error) {
				return s.AddExtra(ctx, args.String("extra")), nil
			},
		},
		{
			Name:        GetOrderStatus,
			Description: "Describe the current order and list what is still missing.",
			Call: func(ctx context.Context, s *coffee.Session, _ Args) (string, error) {
				return s.Status(ctx), nil
			},
		},
		{
			Name:        SaveOrder,
			Description: "Place the order once drink type, size, milk and name are known. Starts a new order afterwards.",
			Call: func(ctx context.Context, s *coffee.Session, _ Args) (string, error) {
				return s.SaveOrder(ctx)
			},
		},
	}
}
