package api

import "strings"

// WebhookRequest is the Dialogflow v2 fulfillment request
type WebhookRequest struct {
	ResponseID                  string                      `json:"responseId"`
	Session                     string                      `json:"session"`
	QueryResult                 QueryResult                 `json:"queryResult"`
	OriginalDetectIntentRequest OriginalDetectIntentRequest `json:"originalDetectIntentRequest"`
}

// QueryResult is the platform's understanding of the utterance
type QueryResult struct {
	QueryText      string         `json:"queryText"`
	Action         string         `json:"action"`
	Parameters     map[string]any `json:"parameters"`
	Intent         Intent         `json:"intent"`
	OutputContexts []WireContext  `json:"outputContexts"`
	LanguageCode   string         `json:"languageCode"`
}

// Intent identifies the matched intent
type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// WireContext is a context as Dialogflow sends and receives it
type WireContext struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// OriginalDetectIntentRequest carries the Actions on Google payload
type OriginalDetectIntentRequest struct {
	Source  string        `json:"source"`
	Version string        `json:"version"`
	Payload GoogleRequest `json:"payload"`
}

// GoogleRequest is the part of the Actions on Google request the webhook reads
type GoogleRequest struct {
	Surface Surface       `json:"surface"`
	Inputs  []GoogleInput `json:"inputs"`
}

// Surface lists the device's capabilities
type Surface struct {
	Capabilities []Capability `json:"capabilities"`
}

// Capability is one device capability
type Capability struct {
	Name string `json:"name"`
}

// GoogleInput is one raw input of the Actions on Google request
type GoogleInput struct {
	Intent    string           `json:"intent"`
	Arguments []GoogleArgument `json:"arguments"`
}

// GoogleArgument is a raw input argument
type GoogleArgument struct {
	Name      string         `json:"name"`
	TextValue string         `json:"textValue,omitempty"`
	Extension map[string]any `json:"extension,omitempty"`
}

const (
	capabilityScreen  = "actions.capability.SCREEN_OUTPUT"
	intentMediaStatus = "actions.intent.MEDIA_STATUS"
	argMediaStatus    = "MEDIA_STATUS"
	contextsSegment   = "/contexts/"
)

// Action returns the action the turn dispatches on. A media status input
// takes precedence, then the query's action, then the intent's name.
func (r *WebhookRequest) Action() string {
	for _, in := range r.OriginalDetectIntentRequest.Payload.Inputs {
		if in.Intent == intentMediaStatus {
			return intentMediaStatus
		}
	}
	if r.QueryResult.Action != "" {
		return r.QueryResult.Action
	}
	return r.QueryResult.Intent.DisplayName
}

// Params returns the resolved parameters plus the media status, if any
func (r *WebhookRequest) Params() map[string]any {
	params := make(map[string]any, len(r.QueryResult.Parameters)+1)
	for k, v := range r.QueryResult.Parameters {
		params[k] = v
	}
	for _, in := range r.OriginalDetectIntentRequest.Payload.Inputs {
		for _, arg := range in.Arguments {
			if arg.Name != argMediaStatus {
				continue
			}
			if status, ok := arg.Extension["status"].(string); ok {
				params["media_status"] = status
			}
		}
	}
	return params
}

// HasScreen reports whether the device can show rich responses
func (r *WebhookRequest) HasScreen() bool {
	for _, c := range r.OriginalDetectIntentRequest.Payload.Surface.Capabilities {
		if c.Name == capabilityScreen {
			return true
		}
	}
	return false
}

// contextName strips the session path from a full context name
func contextName(full string) string {
	if i := strings.LastIndex(full, contextsSegment); i >= 0 {
		return full[i+len(contextsSegment):]
	}
	return full
}

// WebhookResponse is the Dialogflow v2 fulfillment response
type WebhookResponse struct {
	FulfillmentText    string           `json:"fulfillmentText,omitempty"`
	Payload            *ResponsePayload `json:"payload,omitempty"`
	OutputContexts     []WireContext    `json:"outputContexts,omitempty"`
	FollowupEventInput *EventInput      `json:"followupEventInput,omitempty"`
}

// EventInput asks the platform to trigger an event
type EventInput struct {
	Name         string `json:"name"`
	LanguageCode string `json:"languageCode"`
}

// ResponsePayload carries the platform specific response
type ResponsePayload struct {
	Google GoogleResponse `json:"google"`
}

// GoogleResponse is the Actions on Google response
type GoogleResponse struct {
	ExpectUserResponse bool         `json:"expectUserResponse"`
	RichResponse       RichResponse `json:"richResponse"`
}

// RichResponse holds the items shown and spoken to the user
type RichResponse struct {
	Items             []Item             `json:"items"`
	Suggestions       []Suggestion       `json:"suggestions,omitempty"`
	LinkOutSuggestion *LinkOutSuggestion `json:"linkOutSuggestion,omitempty"`
}

// Item is one rich response item; exactly one field is set
type Item struct {
	SimpleResponse *SimpleResponse `json:"simpleResponse,omitempty"`
	BasicCard      *BasicCard      `json:"basicCard,omitempty"`
	MediaResponse  *MediaResponse  `json:"mediaResponse,omitempty"`
}

// SimpleResponse is spoken text
type SimpleResponse struct {
	TextToSpeech string `json:"textToSpeech"`
	DisplayText  string `json:"displayText,omitempty"`
}

// BasicCard shows an image
type BasicCard struct {
	Image *Image `json:"image,omitempty"`
}

// Image is a card or media image
type Image struct {
	URL               string `json:"url"`
	AccessibilityText string `json:"accessibilityText"`
}

// MediaResponse plays audio
type MediaResponse struct {
	MediaType    string        `json:"mediaType"`
	MediaObjects []MediaObject `json:"mediaObjects"`
}

// MediaObject is one playable item
type MediaObject struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ContentURL  string `json:"contentUrl"`
	LargeImage  *Image `json:"largeImage,omitempty"`
}

// Suggestion is a suggestion chip
type Suggestion struct {
	Title string `json:"title"`
}

// LinkOutSuggestion is a chip opening a web page
type LinkOutSuggestion struct {
	DestinationName string `json:"destinationName"`
	URL             string `json:"url"`
}
