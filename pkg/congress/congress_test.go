package congress

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func sampleData() Data {
	return Data{
		Members: map[string]Legislator{
			"Shelby":    {Name: "Richard Shelby", Party: "R", State: "AL"},
			"Sessions":  {Name: "Jeff Sessions", Party: "Republican", State: "al"},
			"Sanders":   {Name: "Bernard Sanders", Party: "I", State: "VT"},
			"Leahy":     {Name: "Patrick Leahy", Party: "D", State: "VT"},
			"Murkowski": {Name: "Lisa Murkowski", Party: "R", State: "AK"},
		},
		StateFullAbbrev: map[string]string{
			"Alabama": "AL",
			"Vermont": "VT",
			"Alaska":  "AK",
		},
		MemberAgreement: map[string]float64{"Shelby": 0.8, "Leahy": 0.3},
		StateAgreement:  map[string]float64{"AL": 0.75},
	}
}

func TestParseParty(t *testing.T) {
	tests := []struct {
		in   string
		want Party
	}{
		{"R", Republican},
		{"republican", Republican},
		{"D", Democrat},
		{"Democratic", Democrat},
		{"I", Independent},
		{"Libertarian", Independent},
		{"", Independent},
	}
	for _, tt := range tests {
		if got := ParseParty(tt.in); got != tt.want {
			t.Errorf("ParseParty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_DerivesDelegationsFromStates(t *testing.T) {
	c := New(sampleData())

	al, ok := c.Delegation("AL")
	if !ok {
		t.Fatal("expected AL delegation")
	}
	if len(al) != 2 || al[0] != "Sessions" || al[1] != "Shelby" {
		t.Errorf("AL delegation = %v, want [Sessions Shelby]", al)
	}
	if _, ok := c.Delegation("TX"); ok {
		t.Error("TX should have no delegation")
	}

	m, ok := c.Member("Sessions")
	if !ok {
		t.Fatal("expected Sessions")
	}
	if m.Party != Republican || m.State != "AL" || m.ID != "Sessions" {
		t.Errorf("Sessions normalized wrong: %+v", m)
	}
}

func TestNew_KeepsExplicitDelegationOrder(t *testing.T) {
	d := sampleData()
	d.Delegations = map[string][]string{"VT": {"Sanders", "Leahy"}}
	c := New(d)

	vt, _ := c.Delegation("VT")
	if len(vt) != 2 || vt[0] != "Sanders" || vt[1] != "Leahy" {
		t.Errorf("VT delegation = %v, want [Sanders Leahy]", vt)
	}
	if _, ok := c.Delegation("AL"); ok {
		t.Error("explicit delegations should not be merged with derived ones")
	}
}

func TestLookups_MissingData(t *testing.T) {
	c := New(sampleData())

	if _, ok := c.MemberAgreementPercent("Sanders"); ok {
		t.Error("Sanders has no agreement score")
	}
	if _, ok := c.StateAgreementPercent("VT"); ok {
		t.Error("VT has no agreement score")
	}
	if v, ok := c.StateAgreementPercent("al"); !ok || v != 0.75 {
		t.Errorf("StateAgreementPercent(al) = %v, %v", v, ok)
	}
	if _, ok := c.StateAbbrev("Texas"); ok {
		t.Error("Texas should not resolve")
	}
	if _, ok := c.Member("Nobody"); ok {
		t.Error("unknown member resolved")
	}
}

func TestSelection_AddClearRemove(t *testing.T) {
	c := New(sampleData())

	c.AddMember("Leahy", "Sanders", "Leahy", "Nobody")
	got := c.SelectedMembers()
	if len(got) != 2 || got[0] != "Leahy" || got[1] != "Sanders" {
		t.Fatalf("SelectedMembers = %v, want [Leahy Sanders]", got)
	}
	if !c.IsSelected("Leahy") || c.IsNonSelected("Leahy") {
		t.Error("Leahy should be selected")
	}
	if !c.IsNonSelected("Shelby") {
		t.Error("Shelby should be nonselected")
	}
	if c.IsNonSelected("Nobody") {
		t.Error("unknown ids are neither selected nor nonselected")
	}
	if n := len(c.NonSelectedMembers()); n != 3 {
		t.Errorf("NonSelectedMembers = %d, want 3", n)
	}

	if err := c.RemoveMember("Leahy"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if c.IsSelected("Leahy") {
		t.Error("Leahy still selected")
	}
	if err := c.RemoveMember("Nobody"); err != ErrUnknownMember {
		t.Errorf("RemoveMember(Nobody) = %v, want ErrUnknownMember", err)
	}

	c.ClearMembers()
	if len(c.SelectedMembers()) != 0 {
		t.Error("ClearMembers left members selected")
	}
}

func TestDecode_RoundTripKeepsSelection(t *testing.T) {
	d := sampleData()
	d.Selected = []string{"Shelby"}
	c := New(d)

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !back.IsSelected("Shelby") {
		t.Error("selection lost in round trip")
	}
	if v, _ := back.MemberAgreementPercent("Shelby"); v != 0.8 {
		t.Errorf("Shelby agreement = %v, want 0.8", v)
	}
}

func TestEncode_WritesBaselineAgreement(t *testing.T) {
	d := sampleData()
	d.Votes = map[string]map[string]Position{
		"Shelby":   {"rc1": "Yea", "rc2": "Yea"},
		"Sessions": {"rc1": "Yea", "rc2": "Nay"},
		"Leahy":    {"rc1": "Nay", "rc2": "Nay"},
	}
	c := New(d)
	c.AddMember("Shelby")
	c.RecomputeAgreement()
	if v, _ := c.MemberAgreementPercent("Leahy"); v != 0 {
		t.Fatalf("Leahy agreement with Shelby = %v, want 0", v)
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v, _ := back.MemberAgreementPercent("Leahy"); v != 0 {
		t.Errorf("decoded Leahy agreement = %v, want 0 for the carried selection", v)
	}
	if got := back.Votes(); len(got) != 3 || got["Sessions"]["rc2"] != Nay {
		t.Errorf("votes = %v", got)
	}

	for _, m := range []*Congress{c, back} {
		m.ClearMembers()
		m.RecomputeAgreement()
	}
	for _, id := range []string{"Shelby", "Leahy", "Sessions"} {
		want, wantOK := c.MemberAgreementPercent(id)
		got, ok := back.MemberAgreementPercent(id)
		if got != want || ok != wantOK {
			t.Errorf("%s after clear = %v,%v, want %v,%v", id, got, ok, want, wantOK)
		}
	}
	if v, ok := back.StateAgreementPercent("AL"); !ok || v != 0.75 {
		t.Errorf("AL after clear = %v,%v, want 0.75", v, ok)
	}
	if v, ok := back.BaselineStateAgreement("al"); !ok || v != 0.75 {
		t.Errorf("AL baseline = %v,%v", v, ok)
	}
}

func TestVotes_ReturnsCopy(t *testing.T) {
	d := sampleData()
	if New(d).Votes() != nil {
		t.Error("Votes() without records should be nil")
	}
	d.Votes = map[string]map[string]Position{"Shelby": {"rc1": "yea"}}
	c := New(d)
	got := c.Votes()
	if got["Shelby"]["rc1"] != Yea {
		t.Fatalf("votes = %v", got)
	}
	got["Shelby"]["rc1"] = Nay
	if c.Votes()["Shelby"]["rc1"] != Yea {
		t.Error("Votes() exposed internal state")
	}
}

func TestDecode_RejectsEmpty(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"members":{}}`)); err == nil {
		t.Error("expected error for empty member set")
	}
	if _, err := Decode(strings.NewReader(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestRecomputeAgreement_FromVotes(t *testing.T) {
	d := sampleData()
	d.Votes = map[string]map[string]Position{
		"Shelby":    {"rc1": "Yea", "rc2": "Nay", "rc3": "Yea"},
		"Sessions":  {"rc1": "Yea", "rc2": "Yea", "rc3": "Not Voting"},
		"Sanders":   {"rc1": "Nay", "rc2": "Nay", "rc3": "Nay"},
		"Leahy":     {"rc1": "Yea", "rc2": "Yea", "rc3": "Yea"},
		"Murkowski": {"rc4": "Yea"},
	}
	c := New(d)
	c.AddMember("Shelby")
	c.RecomputeAgreement()

	check := func(id string, want float64) {
		t.Helper()
		got, ok := c.MemberAgreementPercent(id)
		if !ok {
			t.Fatalf("%s has no agreement", id)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s agreement = %v, want %v", id, got, want)
		}
	}
	check("Shelby", 1)
	check("Sessions", 0.5)
	check("Sanders", 1.0/3)
	check("Leahy", 2.0/3)

	if _, ok := c.MemberAgreementPercent("Murkowski"); ok {
		t.Error("Murkowski shares no roll calls with the selection")
	}
	if v, _ := c.StateAgreementPercent("AL"); math.Abs(v-0.75) > 1e-9 {
		t.Errorf("AL agreement = %v, want 0.75", v)
	}
	if v, _ := c.StateAgreementPercent("VT"); math.Abs(v-0.5) > 1e-9 {
		t.Errorf("VT agreement = %v, want 0.5", v)
	}
	if _, ok := c.StateAgreementPercent("AK"); ok {
		t.Error("AK should have no agreement")
	}

	c.ClearMembers()
	c.RecomputeAgreement()
	if v, _ := c.MemberAgreementPercent("Leahy"); v != 0.3 {
		t.Errorf("empty selection should restore baseline, Leahy = %v", v)
	}
}

func TestSelectionMajority_TiesHaveNoSide(t *testing.T) {
	c := New(Data{
		Members: map[string]Legislator{
			"A": {Party: "R", State: "AL"},
			"B": {Party: "D", State: "AL"},
		},
		Votes: map[string]map[string]Position{
			"A": {"rc1": "Yea", "rc2": "Yea"},
			"B": {"rc1": "Nay", "rc2": "Yea"},
		},
	})
	c.AddMember("A", "B")

	m := c.selectionMajority()
	if _, ok := m["rc1"]; ok {
		t.Error("rc1 is tied and should have no majority")
	}
	if m["rc2"] != Yea {
		t.Errorf("rc2 majority = %q, want Yea", m["rc2"])
	}
}
