package pubsub

import "github.com/nfrund/authpanel/internal/authform"

// TopicFormState carries a JSON authform.Snapshot after every state change.
const TopicFormState = "authform.state"

// FormState is the typed event for TopicFormState.
var FormState = NewEvent[authform.Snapshot](TopicFormState)
