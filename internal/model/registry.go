package model

// All lists every table owned by this service, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&ProjectLink{},
		&DesignVersion{},
		&GeneratedImage{},
		&FeedbackEvent{},
		&Preference{},
		&ChatMessage{},
	}
}
