package signal

import "testing"

func TestLegsFlattensHedge(t *testing.T) {
	sig := Signal{
		Strategy: "arbitrage",
		Action:   Buy,
		Amount:   1,
		Hedge:    &Signal{Action: Sell, Amount: 1},
	}
	legs := sig.Legs()
	if len(legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(legs))
	}
	if legs[0].Action != Buy || legs[1].Action != Sell {
		t.Fatalf("unexpected leg order: %+v", legs)
	}
	if legs[1].Strategy != "arbitrage" {
		t.Fatalf("hedge should inherit strategy name, got %q", legs[1].Strategy)
	}
	if legs[0].Hedge != nil {
		t.Fatalf("first leg must not keep the hedge pointer")
	}
}

func TestLegsHold(t *testing.T) {
	if legs := HoldSignal("warming up").Legs(); legs != nil {
		t.Fatalf("expected no legs for hold, got %+v", legs)
	}
	if !(Signal{}).IsHold() {
		t.Fatalf("zero signal should be treated as hold")
	}
}

func TestSampleOptionalInputs(t *testing.T) {
	base := Sample{Price: 25}
	withVol := base.WithVolume(12000)
	if base.Volume != nil {
		t.Fatalf("WithVolume must not mutate the receiver")
	}
	if withVol.Volume == nil || *withVol.Volume != 12000 {
		t.Fatalf("unexpected volume %+v", withVol.Volume)
	}
	withSent := base.WithSentiment(0.8, "adoption rises")
	if withSent.Sentiment == nil || *withSent.Sentiment != 0.8 || withSent.Headline != "adoption rises" {
		t.Fatalf("unexpected sentiment sample %+v", withSent)
	}
}
