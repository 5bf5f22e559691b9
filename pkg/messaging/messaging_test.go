package messaging

import "testing"

func TestGetName(t *testing.T) {
	if got := getName("moments", CollectionChanged); got != "moments_collection_changed" {
		t.Errorf("unexpected exchange name %s", got)
	}
}

func TestDecodeCollectionChange(t *testing.T) {
	change, err := DecodeCollectionChange([]byte(`{"account":"0xabc","moments":[{"id":"1","series":2,"subeditionId":null}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if change.Account != "0xabc" || len(change.Moments) != 1 || change.Moments[0].Subedition() != 0 {
		t.Errorf("unexpected change %+v", change)
	}
	if _, err := DecodeCollectionChange([]byte(`{"moments":[]}`)); err == nil {
		t.Error("expected an error for a change without account")
	}
	if _, err := DecodeCollectionChange([]byte(`[`)); err == nil {
		t.Error("expected an error for malformed json")
	}
}
