package universe

import "testing"

func TestIsCrypto(t *testing.T) {
	cases := []struct {
		symbol string
		want   bool
	}{
		{"BTC-USD", true},
		{"SOL-USD", true},
		{"AAPL", false},
		{"BRK-B", false},
		{"SIE.DE", false},
	}
	for _, tc := range cases {
		if got := IsCrypto(tc.symbol); got != tc.want {
			t.Errorf("IsCrypto(%q) = %v, want %v", tc.symbol, got, tc.want)
		}
	}
	if AssetType("ETH-USD") != "crypto" || AssetType("MSFT") != "stock" {
		t.Error("AssetType classification mismatch")
	}
}

func TestLoadCustomSplitsBySuffix(t *testing.T) {
	u := Load("custom", true, []string{"AAPL", "BTC-USD", "TSLA", "ETH-USD"})
	if len(u.Stocks) != 2 || len(u.Crypto) != 2 {
		t.Fatalf("custom split = %d stocks, %d crypto; want 2, 2", len(u.Stocks), len(u.Crypto))
	}
}

func TestLoadUSStocksDeduplicates(t *testing.T) {
	u := Load("us_stocks", false, nil)
	seen := make(map[string]int)
	for _, s := range u.Stocks {
		seen[s]++
	}
	if seen["AAPL"] != 1 {
		t.Fatalf("AAPL appears %d times, want 1", seen["AAPL"])
	}
	if len(u.Crypto) != 0 {
		t.Fatalf("crypto disabled but %d crypto symbols present", len(u.Crypto))
	}
}

func TestLoadCryptoToggle(t *testing.T) {
	with := Load("sp500", true, nil)
	if len(with.Crypto) == 0 {
		t.Fatal("enable_crypto should append the crypto list")
	}
	without := Load("crypto", false, nil)
	if without.Size() != 0 {
		t.Fatalf("crypto mode with crypto disabled should be empty, got %d", without.Size())
	}
}
