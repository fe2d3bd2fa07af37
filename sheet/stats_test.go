package sheet

import "testing"

func decodedAlpha(t *testing.T) []*Sheet {
	sm, ra, _ := testMatch(threeSets...)
	sheet, err := Decode("ALPHA", true, ra, sm, DecodeOptions{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return []*Sheet{sheet}
}

func TestFilterSets(t *testing.T) {
	sheets := decodedAlpha(t)

	won := FilterSets(sheets, AcceptSetWon(true))
	if len(won) != 1 || len(won[0].Match.Sets) != 2 {
		t.Fatal("won sets were not filtered")
	}
	lost := FilterSets(sheets, NotSet(AcceptSetWon(true)))
	if len(lost[0].Match.Sets) != 1 {
		t.Fatal("negated acceptor did not keep the lost set")
	}
	if len(sheets[0].Match.Sets) != 3 {
		t.Fatal("filtering modified the source sheet")
	}

	if len(FilterSets(sheets, AcceptMatches("2aa001"))) != 1 {
		t.Fatal("match ids are not compared case insensitive")
	}
	if len(FilterSets(sheets, AcceptMatches("2AA002"))) != 0 {
		t.Fatal("empty sheets were not dropped")
	}
	if len(FilterSets(sheets, AcceptMatchWon(false))) != 0 {
		t.Fatal("a won match was accepted as lost")
	}
}

func TestPointAcceptors(t *testing.T) {
	sheets := decodedAlpha(t)
	total := SumStats(sheets)

	serves := SumStats(FilterPoints(sheets, AcceptServe(true)))
	receives := SumStats(FilterPoints(sheets, Not(AcceptServe(true))))
	if serves.Points+receives.Points != total.Points || serves.Points != total.Serves {
		t.Fatal("serve and receive do not partition the rallies")
	}

	every := SumStats(FilterPoints(sheets, Every(AcceptServe(true), AcceptServe(false))))
	some := SumStats(FilterPoints(sheets, Some(AcceptServe(true), AcceptServe(false))))
	if every.Points != 0 || some.Points != total.Points {
		t.Fatal("every and some do not combine acceptors")
	}

	if SumStats(FilterPoints(sheets, AcceptLicences([]string{"A1", "A6"}, nil))).Points != total.Points {
		t.Fatal("starters are not on court")
	}
	if len(FilterPoints(sheets, AcceptLicences(nil, []string{"A1"}))) != 0 {
		t.Fatal("blacklisted starter was accepted")
	}

	rotation0 := 0
	for _, set := range sheets[0].Match.Sets {
		for _, p := range set.Points {
			if p.Rotation%6 == 0 {
				rotation0 += 1
			}
		}
	}
	if SumStats(FilterPoints(sheets, AcceptPosition("A1", 1))).Points != rotation0 {
		t.Fatal("position 1 does not follow the rotation")
	}

	role := AcceptRole("A3", OH1, []string{"A2"})
	if SumStats(FilterPoints(sheets, role)).Points != total.Points {
		t.Fatal("the player next to the setter is not OH1")
	}
	if len(FilterPoints(sheets, AcceptRole("A3", Setter, []string{"A2"}))) != 0 {
		t.Fatal("a player holds the setter role")
	}
	if len(FilterPoints(sheets, AcceptSetter([]string{"A2", "A3"}, ""))) != 0 {
		t.Fatal("two setters on court were accepted")
	}
}

func TestCalcStats(t *testing.T) {
	sheets := decodedAlpha(t)

	stats := CalcStats([]string{"A2"}, sheets)
	if stats.Incomplete {
		t.Fatal("a single setter left rallies unattributed")
	}
	if stats.Total.Matches != 1 || stats.Total.MatchWon != 1 || stats.Total.SetWon != 2 || stats.Total.Points != 20 {
		t.Fatalf("unexpected totals: %+v", stats.Total)
	}

	serves, receives := 0, 0
	for i := range 6 {
		serves += stats.PServes[i].Points
		receives += stats.PReceives[i].Points
	}
	if serves != stats.Serve.Points || receives != stats.Receive.Points {
		t.Fatal("setter positions do not add up")
	}

	won, lost := stats.Peers.Get("A1", "A2")
	if won != stats.Total.PointWon || lost != stats.Total.PointLost {
		t.Fatal("peer counts do not match the rallies")
	}

	stats = CalcStats([]string{"A2", "A3"}, sheets)
	if !stats.Incomplete {
		t.Fatal("ambiguous setters were not flagged")
	}
}
