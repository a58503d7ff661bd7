package a

type slide struct{ text string }

type detector struct{}

func (detector) Detect(slides []slide) error { return nil }

type history struct{}

func (history) SaveRun(id string) error { return nil }

func bad(d detector, slides []slide) {
	for _, s := range slides {
		_ = d.Detect([]slide{s}) // want "Detect called inside loop"
	}
}

func badHistory(h history, ids []string) {
	for i := 0; i < len(ids); i++ {
		_ = h.SaveRun(ids[i]) // want "SaveRun called inside loop"
	}
}

func good(d detector, slides []slide) {
	_ = d.Detect(slides)
}

func goodDeferred(d detector, decks [][]slide) []func() error {
	var calls []func() error
	for _, deck := range decks {
		calls = append(calls, func() error { return d.Detect(deck) })
	}
	return calls
}
