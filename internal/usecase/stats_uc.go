package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

const topReferrersLimit = 50

// Report is a generated admin report, delivered as a file attachment.
type Report struct {
	Filename string
	Caption  string
	Content  []byte
}

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase assembles aggregate statistics for the single authorized admin.
type StatsUseCase interface {
	IsAdmin(userID int64) bool
	Totals(ctx context.Context) (model.BotTotals, error)
	StatsReport(ctx context.Context) (*Report, error)
	UsersReport(ctx context.Context) (*Report, error)
}

type statsUC struct {
	users     repository.UserRepository
	referrals repository.ReferralRepository
	adminID   int64
	loc       *time.Location
	log       *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, referrals repository.ReferralRepository, adminID int64, logger *zerolog.Logger) *statsUC {
	loc, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		loc = time.UTC
	}
	return &statsUC{users: users, referrals: referrals, adminID: adminID, loc: loc, log: logger}
}

func (s *statsUC) IsAdmin(userID int64) bool {
	return s.adminID != 0 && userID == s.adminID
}

func (s *statsUC) Totals(ctx context.Context) (model.BotTotals, error) {
	var t model.BotTotals
	var err error
	if t.TotalUsers, err = s.users.CountUsers(ctx); err != nil {
		return t, fmt.Errorf("count users: %w", err)
	}
	if t.TotalReferrals, err = s.referrals.CountAll(ctx); err != nil {
		return t, fmt.Errorf("count referrals: %w", err)
	}
	if t.SubscribedUsers, err = s.users.CountSubscribed(ctx); err != nil {
		return t, fmt.Errorf("count subscribed: %w", err)
	}
	if t.UsersWithPhone, err = s.users.CountWithPhone(ctx); err != nil {
		return t, fmt.Errorf("count with phone: %w", err)
	}
	return t, nil
}

func (s *statsUC) StatsReport(ctx context.Context) (*Report, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.referrals.TopReferrers(ctx, topReferrersLimit)
	if err != nil {
		return nil, fmt.Errorf("top referrers: %w", err)
	}

	now := time.Now().In(s.loc)
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	thin := strings.Repeat("-", 50)

	b.WriteString(rule + "\n")
	b.WriteString("📊 BOT STATISTIKASI\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("📈 UMUMIY STATISTIKA\n")
	b.WriteString(thin + "\n")
	fmt.Fprintf(&b, "👥 Jami foydalanuvchilar:        %d\n", totals.TotalUsers)
	fmt.Fprintf(&b, "✅ Obuna bo'lganlar:              %d\n", totals.SubscribedUsers)
	fmt.Fprintf(&b, "📱 Telefon ulashganlar:           %d\n", totals.UsersWithPhone)
	fmt.Fprintf(&b, "🔗 Jami referal havolalar:        %d\n\n", totals.TotalReferrals)

	if totals.TotalUsers > 0 {
		fmt.Fprintf(&b, "📊 Obuna darajasi:                %.1f%%\n", totals.SubscriptionRate())
		fmt.Fprintf(&b, "📊 Telefon ulashish darajasi:     %.1f%%\n\n", totals.PhoneRate())
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "🏆 TOP %d REFERALCHILAR\n", topReferrersLimit)
	b.WriteString(rule + "\n\n")

	if len(top) == 0 {
		b.WriteString("Hozircha referallar yo'q.\n\n")
	}
	for i, r := range top {
		name := r.FirstName
		if name == "" {
			name = "Noma'lum"
		}
		username := r.Username
		if username == "" {
			username = "username yo'q"
		}
		phone := r.PhoneNumber
		if phone == "" {
			phone = "telefon yo'q"
		}
		fmt.Fprintf(&b, "%d. %s (@%s)\n", i+1, name, username)
		fmt.Fprintf(&b, "   User ID: %d\n", r.TelegramID)
		fmt.Fprintf(&b, "   📱 Telefon: %s\n", phone)
		fmt.Fprintf(&b, "   👥 Takliflar: %d\n", r.ReferralCount)
		fmt.Fprintf(&b, "   ⭐ Ballar: %d\n", r.Points)
		b.WriteString(thin + "\n")
	}

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "🕐 Yaratilgan vaqt: %s (UZT)\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n")

	return &Report{
		Filename: fmt.Sprintf("bot_stats_%s.txt", now.Format("20060102_150405")),
		Caption:  fmt.Sprintf("📊 Bot statistikasi\n🕐 %s (UZT)", now.Format("2006-01-02 15:04:05")),
		Content:  []byte(b.String()),
	}, nil
}

func (s *statsUC) UsersReport(ctx context.Context) (*Report, error) {
	// Limit 0: every user with at least one referral, ranked.
	rows, err := s.referrals.TopReferrers(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("referrer listing: %w", err)
	}

	now := time.Now().In(s.loc)
	var b strings.Builder
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	b.WriteString(rule + "\n")
	b.WriteString("👥 REFERALI FOYDALANUVCHILAR\n")
	b.WriteString(rule + "\n\n")

	if len(rows) == 0 {
		b.WriteString("Hozircha referal qilgan foydalanuvchilar yo'q.\n\n")
	} else {
		total := 0
		max := 0
		for _, r := range rows {
			total += r.ReferralCount
			if r.ReferralCount > max {
				max = r.ReferralCount
			}
		}
		avg := float64(total) / float64(len(rows))

		fmt.Fprintf(&b, "Jami foydalanuvchilar: %d\n", len(rows))
		b.WriteString(rule + "\n\n")
		b.WriteString("📊 STATISTIKA:\n")
		fmt.Fprintf(&b, "   • Jami referalli foydalanuvchilar: %d\n", len(rows))
		fmt.Fprintf(&b, "   • Jami taklif qilinganlar: %d\n", total)
		fmt.Fprintf(&b, "   • O'rtacha taklif (har bir foydalanuvchi): %.2f\n", avg)
		fmt.Fprintf(&b, "   • Maksimal taklif (bitta foydalanuvchi): %d\n\n", max)
		b.WriteString(rule + "\n\n")

		for i, r := range rows {
			u := model.User{TelegramID: r.TelegramID, FirstName: r.FirstName, LastName: r.LastName}
			username := r.Username
			if username == "" {
				username = "username yo'q"
			}
			phone := r.PhoneNumber
			if phone == "" {
				phone = "telefon yo'q"
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, u.FullName())
			fmt.Fprintf(&b, "   User ID: %d\n", r.TelegramID)
			fmt.Fprintf(&b, "   Username: @%s\n", username)
			fmt.Fprintf(&b, "   📱 Telefon: %s\n", phone)
			fmt.Fprintf(&b, "   👥 Takliflar soni: %d\n", r.ReferralCount)
			b.WriteString(thin + "\n")
		}
	}

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "🕐 Yaratilgan vaqt: %s (UZT)\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n")

	return &Report{
		Filename: fmt.Sprintf("users_with_referrals_%s.txt", now.Format("20060102_150405")),
		Caption:  fmt.Sprintf("👥 Referali foydalanuvchilar ro'yxati\n🕐 %s (UZT)", now.Format("2006-01-02 15:04:05")),
		Content:  []byte(b.String()),
	}, nil
}
