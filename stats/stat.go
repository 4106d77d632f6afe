package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// SessionReport 一位玩家一個 session 的統計報告
//
// 前十個欄位為對外契約（bankroll_history ... total_bet），其餘為補充資訊。
type SessionReport struct {
	BankrollHistory []float64 `json:"bankroll_history" yaml:"bankroll_history"`
	FinalBankroll   float64   `json:"final_bankroll"   yaml:"final_bankroll"`
	EvPerHand       float64   `json:"ev_per_hand"      yaml:"ev_per_hand"`
	HandsPlayed     int       `json:"hands_played"     yaml:"hands_played"`
	WinRate         float64   `json:"win_rate"         yaml:"win_rate"`
	Wins            int       `json:"wins"             yaml:"wins"`
	Losses          int       `json:"losses"           yaml:"losses"`
	Pushes          int       `json:"pushes"           yaml:"pushes"`
	Blackjacks      int       `json:"blackjacks"       yaml:"blackjacks"`
	TotalBet        float64   `json:"total_bet"        yaml:"total_bet"`

	InitBankroll float64 `json:"init_bankroll" yaml:"init_bankroll"`
	TotalWagered float64 `json:"total_wagered" yaml:"total_wagered"`
	Doubles      int     `json:"doubles"       yaml:"doubles"`
	Splits       int     `json:"splits"        yaml:"splits"`
	Reshuffles   int     `json:"reshuffles"    yaml:"reshuffles"`
	MaxBankroll  float64 `json:"max_bankroll"  yaml:"max_bankroll"`
	MinBankroll  float64 `json:"min_bankroll"  yaml:"min_bankroll"`
	Ruined       bool    `json:"ruined"        yaml:"ruined"`
	Std          float64 `json:"std"           yaml:"std"`
	EvCI         CI      `json:"ev_ci"         yaml:"ev_ci"`

	// 每局淨輸贏的和與平方和，Done 時換算 Std / EvCI
	ResultSum   float64 `json:"-" yaml:"-"`
	ResultSqSum float64 `json:"-" yaml:"-"`

	isDone bool
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 把累積量換算成最終統計結果，重複呼叫不會重算。
func (s *SessionReport) Done() {
	if s.isDone {
		return
	}
	s.EvPerHand = round(s.Ev(), 2)
	s.WinRate = 0
	if s.HandsPlayed > 0 {
		s.WinRate = round(float64(s.Wins)/float64(s.HandsPlayed), 3)
	}
	s.Ruined = s.HandsPlayed > 0 && s.FinalBankroll <= 0
	s.Std = s.std()
	s.EvCI = s.ci(0.95)
	s.isDone = true
}

// Ev 未四捨五入的每局期望值：(final - initial) / hands；沒有局數時為 0。
func (s *SessionReport) Ev() float64 {
	if s.HandsPlayed == 0 {
		return 0
	}
	return (s.FinalBankroll - s.InitBankroll) / float64(s.HandsPlayed)
}

// Profit 結束時資金高於起始資金
func (s *SessionReport) Profit() bool {
	return s.FinalBankroll > s.InitBankroll
}

func (s *SessionReport) WriteWith(w io.Writer, rep SessionReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

func (s *SessionReport) StdOut(ut time.Duration) {
	s.Done()
	formatDuration(ut, s.HandsPlayed)
	sk, sm := s.fmtBasic()
	fmt.Println(fmtTable("Blackjack Session", sk, sm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (s *SessionReport) std() float64 {
	if s.HandsPlayed < 2 {
		return 0
	}
	n := float64(s.HandsPlayed)
	variance := (s.ResultSqSum - s.ResultSum*s.ResultSum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// ci EV 的常態近似信賴區間
func (s *SessionReport) ci(confidence float64) CI {
	ev := s.Ev()
	if s.HandsPlayed < 2 {
		return CI{Lo: ev, Hi: ev}
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	se := s.std() / math.Sqrt(float64(s.HandsPlayed))
	return CI{Lo: ev - z*se, Hi: ev + z*se}
}

// round 以 x 的精確二進位值取到 dp 位，恰好落在中間時取偶數位（-0.125 → -0.12）。
func round(x float64, dp int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', dp, 64), 64)
	return v
}

func formatDuration(d time.Duration, hands int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	hps := int(float64(hands) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\nhps : %d hands/sec\n", sec, hps)
		return
	}
	sc := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\nhps : %d hands/sec\n", m, sc, hps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\nhps : %d hands/sec\n", h, m, sc, hps)
}

func (s *SessionReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Hands Played":   p.Sprintf("%d", s.HandsPlayed),
		"Init Bankroll":  p.Sprintf("%.2f", s.InitBankroll),
		"Final Bankroll": p.Sprintf("%.2f", s.FinalBankroll),
		"Max / Min":      p.Sprintf("%.2f / %.2f", s.MaxBankroll, s.MinBankroll),
		"EV / Hand":      p.Sprintf("%.2f", s.EvPerHand),
		"EV 95% CI":      p.Sprintf("[%.3f, %.3f]", s.EvCI.Lo, s.EvCI.Hi),
		"Win Rate":       p.Sprintf("%.1f %%", 100.0*s.WinRate),
		"W / L / P":      p.Sprintf("%d / %d / %d", s.Wins, s.Losses, s.Pushes),
		"Blackjacks":     p.Sprintf("%d", s.Blackjacks),
		"Doubles":        p.Sprintf("%d", s.Doubles),
		"Splits":         p.Sprintf("%d", s.Splits),
		"Total Bet":      p.Sprintf("%.2f", s.TotalBet),
		"Total Wagered":  p.Sprintf("%.2f", s.TotalWagered),
		"Reshuffles":     p.Sprintf("%d", s.Reshuffles),
		"STD":            p.Sprintf("%.3f", s.Std),
		"Ruined":         fmt.Sprintf("%v", s.Ruined),
	}
	keys := []string{"Hands Played", "Init Bankroll", "Final Bankroll", "Max / Min", "EV / Hand", "EV 95% CI", "Win Rate", "W / L / P", "Blackjacks", "Doubles", "Splits", "Total Bet", "Total Wagered", "Reshuffles", "STD", "Ruined"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
