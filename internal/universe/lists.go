package universe

// Preset symbol lists. These are versioned configuration data, not logic;
// edit them freely without touching the pipeline.

var sp500Stocks = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B", "UNH", "JNJ",
	"XOM", "JPM", "V", "PG", "MA", "HD", "CVX", "LLY", "ABBV", "MRK",
	"AVGO", "PEP", "KO", "COST", "WMT", "TMO", "MCD", "CSCO", "ACN", "ABT",
	"DHR", "VZ", "NEE", "ADBE", "CRM", "NKE", "TXN", "PM", "LIN", "CMCSA",
	"UPS", "RTX", "HON", "ORCL", "INTC", "QCOM", "AMD", "INTU", "AMGN", "COP",
	"UNP", "BMY", "LOW", "BA", "SBUX", "GE", "CAT", "T", "DE", "SPGI",
	"AXP", "BLK", "IBM", "GILD", "MMM", "ADI", "MDLZ", "ADP", "TJX", "SYK",
	"CVS", "AMT", "ISRG", "BKNG", "VRTX", "CI", "ZTS", "PLD", "C", "TMUS",
	"MO", "REGN", "DUK", "SO", "MS", "MMC", "BDX", "PNC", "GS", "CB",
	"EOG", "SLB", "USB", "NOC", "SCHW", "FIS", "ITW", "EL", "HCA", "CL",
}

var nasdaq100Stocks = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "AVGO", "COST",
	"ASML", "PEP", "AZN", "CSCO", "ADBE", "TMUS", "CMCSA", "AMD", "NFLX", "INTC",
	"TXN", "INTU", "QCOM", "HON", "AMGN", "SBUX", "AMAT", "ISRG", "BKNG", "ADP",
	"GILD", "ADI", "VRTX", "REGN", "MDLZ", "LRCX", "MU", "PYPL", "PANW", "CSX",
	"SNPS", "CDNS", "CHTR", "MELI", "KLAC", "MAR", "ABNB", "ORLY", "MNST", "CRWD",
	"FTNT", "ADSK", "NXPI", "AEP", "WDAY", "MRVL", "DASH", "KDP", "CTAS", "PAYX",
	"ROST", "ODFL", "PCAR", "CPRT", "FAST", "KHC", "EA", "DXCM", "CEG", "GEHC",
	"CTSH", "EXC", "VRSK", "LULU", "XEL", "IDXX", "TEAM", "CCEP", "TTD", "FANG",
	"CSGP", "ANSS", "ZS", "DDOG", "ON", "TTWO", "BIIB", "WBD", "ILMN", "MDB",
	"GFS", "CDW", "MRNA", "WBA", "ARM", "SMCI", "DLTR", "ZM", "ALGN", "RIVN",
}

var europeanStocks = []string{
	"SAP", "ASML", "SIE.DE", "OR.PA", "MC.PA", "RMS.PA", "ALV.DE", "AI.PA",
	"SAN.PA", "ITX.MC", "IBE.MC", "ABI.BR", "SHEL", "BP", "VOD", "GSK",
	"AZN", "HSBA.L", "RIO", "ULVR.L", "DGE.L", "NG.L", "BARC.L", "LLOY.L",
}

var cryptocurrencies = []string{
	"BTC-USD", "ETH-USD", "BNB-USD", "XRP-USD", "ADA-USD",
	"SOL-USD", "DOGE-USD", "MATIC-USD", "DOT-USD", "AVAX-USD",
	"LINK-USD", "UNI-USD", "ATOM-USD", "LTC-USD", "XLM-USD",
}
