package sensor

// LookupManufacturer names the vendor of a BLE device from the company ID in
// its manufacturer data, so an unnamed device still gets a readable title.
func LookupManufacturer(companyID uint16) string {
	if name, ok := companyNames[companyID]; ok {
		return name
	}
	return ""
}

var companyNames = map[uint16]string{
	0x004C: "Apple",
	0x00E0: "Google",
	0x0075: "Samsung",
	0x0310: "Xiaomi",
	0x038F: "Garmin",
	0x0059: "Nordic",
	0x000D: "Texas Inst.",
	0x0822: "Tuya/Govee",
	0x0499: "Ruuvi",
	0x015D: "Espressif",
	0x03DA: "Fitbit",
	0x0269: "Oura",
	0x0473: "Withings",
	0x006B: "Polar",
	0x009F: "Suunto",
}
