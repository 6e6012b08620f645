// Package universe manages the tradeable symbol lists and classifies
// symbols as stock or crypto.
package universe

import (
	"sort"
	"strings"
)

// Universe is the categorized set of symbols in scope for one run.
type Universe struct {
	Stocks []string
	Crypto []string
}

const cryptoSuffix = "-USD"

// Load builds the universe for a named preset. Unknown modes fall back to
// us_stocks. When mode is "custom", the custom list is split by suffix.
func Load(mode string, enableCrypto bool, custom []string) Universe {
	var u Universe

	switch mode {
	case "custom":
		for _, symbol := range custom {
			if strings.HasSuffix(symbol, cryptoSuffix) {
				u.Crypto = append(u.Crypto, symbol)
			} else {
				u.Stocks = append(u.Stocks, symbol)
			}
		}
	case "sp500":
		u.Stocks = append(u.Stocks, sp500Stocks...)
	case "nasdaq100":
		u.Stocks = append(u.Stocks, nasdaq100Stocks...)
	case "europe":
		u.Stocks = append(u.Stocks, europeanStocks...)
	case "crypto":
		if enableCrypto {
			u.Crypto = append(u.Crypto, cryptocurrencies...)
		}
	case "all":
		u.Stocks = merge(sp500Stocks, nasdaq100Stocks, europeanStocks)
	default: // us_stocks
		u.Stocks = merge(sp500Stocks, nasdaq100Stocks)
	}

	if enableCrypto && len(u.Crypto) == 0 && mode != "crypto" && mode != "custom" {
		u.Crypto = append(u.Crypto, cryptocurrencies...)
	}

	sort.Strings(u.Stocks)
	sort.Strings(u.Crypto)
	return u
}

// IsCrypto reports whether symbol is a cryptocurrency, by the -USD suffix
// convention or membership in the known crypto list.
func IsCrypto(symbol string) bool {
	if strings.HasSuffix(symbol, cryptoSuffix) {
		return true
	}
	for _, c := range cryptocurrencies {
		if c == symbol {
			return true
		}
	}
	return false
}

// AssetType returns "crypto" or "stock".
func AssetType(symbol string) string {
	if IsCrypto(symbol) {
		return "crypto"
	}
	return "stock"
}

// Size is the total symbol count.
func (u Universe) Size() int {
	return len(u.Stocks) + len(u.Crypto)
}

func merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, symbol := range list {
			if _, ok := seen[symbol]; ok {
				continue
			}
			seen[symbol] = struct{}{}
			out = append(out, symbol)
		}
	}
	return out
}
