package factory

// countries where addresses carry no postal code.
var countriesWithoutPostalCode = map[string]bool{}

func init() {
	for _, c := range []string{
		"AE", "AF", "AG", "AI", "AL", "AN", "AO", "AW", "BB", "BF", "BH", "BI", "BJ", "BM", "BO", "BS",
		"BT", "BW", "BZ", "CD", "CF", "CG", "CI", "CK", "CL", "CM", "CO", "CR", "CV", "DJ", "DM", "DO",
		"EC", "EG", "ER", "ET", "FJ", "FK", "GA", "GD", "GH", "GI", "GM", "GN", "GQ", "GT", "GW", "GY",
		"HK", "HN", "HT", "IE", "IQ", "IR", "JM", "JO", "KE", "KH", "KI", "KM", "KN", "KP", "KW", "KY",
		"LA", "LB", "LC", "LK", "LR", "LS", "LY", "ML", "MM", "MO", "MR", "MS", "MT", "MU", "MW", "MZ",
		"NA", "NE", "NG", "NI", "NP", "NR", "NU", "OM", "PA", "PE", "PF", "PY", "QA", "RW", "SA", "SB",
		"SC", "SD", "SL", "SN", "SO", "SR", "SS", "ST", "SV", "SY", "TC", "TD", "TG", "TL", "TO", "TT",
		"TV", "TZ", "UG", "UY", "VC", "VE", "VG", "VN", "VU", "WS", "XA", "XB", "XC", "XE", "XL", "XM",
		"XN", "XS", "YE", "ZM", "ZW",
	} {
		countriesWithoutPostalCode[c] = true
	}
}

func countryWithoutPostalCode(country string) bool {
	return countriesWithoutPostalCode[country]
}
