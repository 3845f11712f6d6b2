package chat

import "testing"

func TestComputeStats(t *testing.T) {
	msgs := []Message{
		{Sender: "A", Text: "Mon AMOUR, je t'aime"},
		{Sender: "B", Text: "mdr haha 😂"},
		{Sender: "A", Text: "jtm amour amour"},
		{Sender: "B", Text: "<Media omitted>"},
	}
	s := ComputeStats(msgs)
	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.Amour != 3 {
		t.Errorf("Amour = %d, want 3", s.Amour)
	}
	if s.Laughs != 3 {
		t.Errorf("Laughs = %d, want 3", s.Laughs)
	}
	if s.ILoveYou != 2 {
		t.Errorf("ILoveYou = %d, want 2", s.ILoveYou)
	}
	if s.Media != 1 {
		t.Errorf("Media = %d, want 1", s.Media)
	}
	if s.PerSender["A"] != 2 || s.PerSender["B"] != 2 {
		t.Errorf("PerSender = %v", s.PerSender)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint("[01/02/23, 10:00:00] Alice: hi")
	if a != Fingerprint("[01/02/23, 10:00:00] Alice: hi") {
		t.Error("Fingerprint() not stable")
	}
	if a == Fingerprint("[01/02/23, 10:00:00] Alice: ho") {
		t.Error("Fingerprint() collided on different input")
	}
}
