package exchange

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	solana "github.com/gagliardetto/solana-go"
)

const defaultJupiterBaseURL = "https://quote-api.jup.ag"

var (
	// SOLMint is the wrapped SOL mint.
	SOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	// USDCMint is the USDC mint on Solana mainnet.
	USDCMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

type jupiterQuote struct {
	InputMint   string `json:"inputMint"`
	OutputMint  string `json:"outputMint"`
	InAmount    string `json:"inAmount"`
	OutAmount   string `json:"outAmount"`
	SlippageBps int    `json:"slippageBps"`
}

// Jupiter prices one whole input token in output tokens from aggregator quotes. Only the quote
// endpoint is used; nothing is signed or sent.
type Jupiter struct {
	poller
	baseURL     string
	input       solana.PublicKey
	output      solana.PublicKey
	inDecimals  int
	outDecimals int
}

// NewJupiter parses pair as "inputMint/outputMint" (empty selects SOL/USDC) and validates both
// mints as base58 public keys.
func NewJupiter(baseURL, pair string, rps float64, timeout time.Duration) (*Jupiter, error) {
	j := &Jupiter{
		poller:      newPoller(rps, timeout),
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		input:       SOLMint,
		output:      USDCMint,
		inDecimals:  9,
		outDecimals: 6,
	}
	if j.baseURL == "" {
		j.baseURL = defaultJupiterBaseURL
	}
	if pair = strings.TrimSpace(pair); pair != "" && !strings.EqualFold(pair, "solana") {
		in, out, ok := strings.Cut(pair, "/")
		if !ok {
			return nil, fmt.Errorf("jupiter pair %q must be inputMint/outputMint", pair)
		}
		var err error
		if j.input, err = solana.PublicKeyFromBase58(strings.TrimSpace(in)); err != nil {
			return nil, fmt.Errorf("jupiter input mint: %w", err)
		}
		if j.output, err = solana.PublicKeyFromBase58(strings.TrimSpace(out)); err != nil {
			return nil, fmt.Errorf("jupiter output mint: %w", err)
		}
	}
	return j, nil
}

// WithDecimals sets the token decimals used to scale quote amounts.
func (j *Jupiter) WithDecimals(in, out int) *Jupiter {
	j.inDecimals, j.outDecimals = in, out
	return j
}

// Price quotes one whole input token.
func (j *Jupiter) Price(ctx context.Context) (float64, error) {
	amount := uint64(math.Pow10(j.inDecimals))
	q := url.Values{
		"inputMint":        {j.input.String()},
		"outputMint":       {j.output.String()},
		"amount":           {strconv.FormatUint(amount, 10)},
		"slippageBps":      {"50"},
		"onlyDirectRoutes": {"false"},
	}
	var quote jupiterQuote
	if err := j.getJSON(ctx, j.baseURL+"/v6/quote?"+q.Encode(), &quote); err != nil {
		return 0, fmt.Errorf("jupiter quote: %w", err)
	}
	out, err := strconv.ParseFloat(quote.OutAmount, 64)
	if err != nil || out <= 0 {
		return 0, unavailable("jupiter quote has no out amount %q", quote.OutAmount)
	}
	return out / math.Pow10(j.outDecimals), nil
}
