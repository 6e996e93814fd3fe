package state

import (
	"encoding/json"
	"errors"

	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// NotificationEvent is a notification produced by a contract's System.
// Runtime.Notify call during execution.
type NotificationEvent struct {
	ScriptHash util.Uint160
	Name       string
	Item       *stackitem.Array
}

// EncodeBinary implements the io.Serializable interface.
func (ne *NotificationEvent) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(ne.ScriptHash[:])
	w.WriteString(ne.Name)
	stackitem.EncodeBinaryStackItem(ne.Item, w)
}

// DecodeBinary implements the io.Serializable interface.
func (ne *NotificationEvent) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(ne.ScriptHash[:])
	ne.Name = r.ReadString()
	item := stackitem.DecodeBinaryStackItem(r)
	if r.Err != nil {
		return
	}
	if item == nil {
		ne.Item = nil
		return
	}
	arr, ok := item.(*stackitem.Array)
	if !ok {
		r.Err = errors.New("notification state is not an array")
		return
	}
	ne.Item = arr
}

type notificationEventAux struct {
	ScriptHash util.Uint160    `json:"contract"`
	Name       string          `json:"eventname"`
	Item       json.RawMessage `json:"state"`
}

// MarshalJSON implements the json.Marshaler interface.
func (ne *NotificationEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationEventAux{
		ScriptHash: ne.ScriptHash,
		Name:       ne.Name,
		Item:       stackitem.ToJSONSafe(ne.Item),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (ne *NotificationEvent) UnmarshalJSON(data []byte) error {
	aux := new(notificationEventAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	item, err := stackitem.FromJSONSafe(aux.Item)
	if err != nil {
		return err
	}
	var arr *stackitem.Array
	if item != nil {
		var ok bool
		arr, ok = item.(*stackitem.Array)
		if !ok {
			return errors.New("notification state must be an array")
		}
	}
	ne.ScriptHash = aux.ScriptHash
	ne.Name = aux.Name
	ne.Item = arr
	return nil
}
