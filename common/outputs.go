package common

import (
	"encoding/json"
	"errors"
)

// Output is a transport for normalized event payloads.
type Output interface {
	Send(endpoint string, payload *EventPayload)
}

type Outputs struct {
	list []Output
}

func (ots *Outputs) Add(o Output) {

	ots.list = append(ots.list, o)
}

func (ots *Outputs) Send(endpoint string, payload *EventPayload) error {

	if payload == nil {

		return errors.New("payload is not found")
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		log.Error(err)
		return err
	}

	log.Debug("Original event => %s", string(bytes))

	for _, o := range ots.list {

		if o != nil {

			o.Send(endpoint, payload)

		} else {
			log.Warn("Output is not defined")
		}
	}

	return nil
}

func NewOutputs() *Outputs {
	return &Outputs{}
}
