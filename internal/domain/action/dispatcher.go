package action

// Dispatcher collects reply segments and slot mutations in order.
type Dispatcher struct {
	result Result
}

// Utter appends a text segment.
func (d *Dispatcher) Utter(text string) {
	d.result.Responses = append(d.result.Responses, Response{Text: text})
}

// UtterImage appends a text segment with an optional image reference.
func (d *Dispatcher) UtterImage(text, image string) {
	d.result.Responses = append(d.result.Responses, Response{Text: text, Image: image})
}

// SetSlot records a slot mutation.
func (d *Dispatcher) SetSlot(name string, value any) {
	d.result.Slots = append(d.result.Slots, SlotSet{Name: name, Value: value})
}

// Result returns everything collected so far.
func (d *Dispatcher) Result() Result {
	return d.result
}
