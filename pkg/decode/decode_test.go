package decode

import "testing"

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFromMap(t *testing.T) {
	got, err := FromMap[sample](map[string]any{
		"name":  "widget",
		"count": 3,
	})
	if err != nil {
		t.Fatalf("FromMap() failed: %v", err)
	}

	if got.Name != "widget" || got.Count != 3 {
		t.Errorf("FromMap() = %+v, want {widget 3}", got)
	}
}

func TestJSONStrict(t *testing.T) {
	got, err := JSONStrict[sample]([]byte(`{"name":"widget","count":3}`))
	if err != nil {
		t.Fatalf("JSONStrict() failed: %v", err)
	}

	if got.Name != "widget" || got.Count != 3 {
		t.Errorf("JSONStrict() = %+v, want {widget 3}", got)
	}
}

func TestJSONStrict_RejectsUnknownFields(t *testing.T) {
	_, err := JSONStrict[sample]([]byte(`{"name":"widget","extra":true}`))
	if err == nil {
		t.Fatal("JSONStrict() accepted unknown field")
	}
}

func TestJSONStrict_RejectsTrailingContent(t *testing.T) {
	_, err := JSONStrict[sample]([]byte(`{"name":"widget"}{"name":"again"}`))
	if err == nil {
		t.Fatal("JSONStrict() accepted trailing content")
	}
}

func TestJSONStrict_RejectsInvalidJSON(t *testing.T) {
	_, err := JSONStrict[sample]([]byte(`not json`))
	if err == nil {
		t.Fatal("JSONStrict() accepted invalid json")
	}
}
