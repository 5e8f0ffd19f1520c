package service

// Stack is an ordered list of Layers. The first Layer is the outermost: it
// sees the request first and the response last.
type Stack[Req, Res any] []Layer[Req, Res]

// NewStack creates a new stack
func NewStack[Req, Res any](layers ...Layer[Req, Res]) Stack[Req, Res] {
	return layers
}

// Append adds layers to the inner end of the stack
func (s Stack[Req, Res]) Append(layers ...Layer[Req, Res]) Stack[Req, Res] {
	result := make(Stack[Req, Res], 0, len(s)+len(layers))
	result = append(result, s...)
	return append(result, layers...)
}

// Prepend adds layers to the outer end of the stack
func (s Stack[Req, Res]) Prepend(layers ...Layer[Req, Res]) Stack[Req, Res] {
	result := make(Stack[Req, Res], len(layers)+len(s))
	copy(result, layers)
	copy(result[len(layers):], s)
	return result
}

// Then applies the stack to a terminal service
func (s Stack[Req, Res]) Then(terminal Service[Req, Res]) BoxedService[Req, Res] {
	svc := Box(terminal)
	for i := len(s) - 1; i >= 0; i-- {
		svc = s[i].Layer(svc)
	}
	return svc
}

// Apply wraps svc with layers; layers[0] ends up outermost.
func Apply[Req, Res any](svc Service[Req, Res], layers ...Layer[Req, Res]) BoxedService[Req, Res] {
	return Stack[Req, Res](layers).Then(svc)
}
