package sensor

import "testing"

func TestParseNmcliActive(t *testing.T) {
	out := "no:Neighbour:80\nyes:Home\\:Net:60\nno:Other:20\n"
	ssid, dbm, ok := parseNmcliActive(out)
	if !ok {
		t.Fatal("active network not found")
	}
	if ssid != "Home:Net" {
		t.Errorf("ssid = %q", ssid)
	}
	if dbm != -58 {
		t.Errorf("dbm = %v, want -58", dbm)
	}

	if _, _, ok := parseNmcliActive("no:A:50\n"); ok {
		t.Error("expected no active network")
	}
}

func TestParseIWLink(t *testing.T) {
	out := `Connected to aa:bb:cc:dd:ee:ff (on wlan0)
	SSID: office
	freq: 5180
	signal: -61 dBm
	tx bitrate: 433.3 MBit/s`
	ssid, dbm, ok := parseIWLink(out)
	if !ok || ssid != "office" || dbm != -61 {
		t.Errorf("got %q %v %v", ssid, dbm, ok)
	}

	if _, _, ok := parseIWLink("Not connected."); ok {
		t.Error("expected not connected")
	}
}
