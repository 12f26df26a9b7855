// Verify that the bot can see the required channel and holds admin rights
// there. Run after changing CHANNEL_ID or bot permissions.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-referral-bot/internal/config"
	"telegram-referral-bot/internal/infra/telegram"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		fmt.Fprintln(os.Stderr, "bot token not configured, set BOT_TOKEN")
		os.Exit(1)
	}

	line := strings.Repeat("=", 50)
	fmt.Println(line)
	fmt.Println("Testing Channel Access")
	fmt.Println(line)
	fmt.Printf("Channel ID: %s\n", cfg.Channel.ID)
	fmt.Printf("Bot Username: @%s\n", cfg.Bot.Username)
	fmt.Println()

	messenger, err := telegram.NewMessenger(cfg.Bot.Token)
	if err != nil {
		fail(err)
	}
	api := messenger.API()

	chat, err := api.GetChat(chatInfo(cfg.Channel.ID))
	if err != nil {
		fail(err)
	}
	fmt.Println("✅ Channel found!")
	fmt.Printf("   Title: %s\n", chat.Title)
	fmt.Printf("   ID: %d\n", chat.ID)
	fmt.Printf("   Type: %s\n", chat.Type)
	fmt.Println()

	member, err := api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chat.ID,
			UserID: api.Self.ID,
		},
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("✅ Bot status in channel: %s\n", member.Status)

	if member.Status != "administrator" && member.Status != "creator" {
		fmt.Println("⚠️  WARNING: Bot is not an admin in the channel!")
		fmt.Println("   Please add the bot as admin with these permissions:")
		fmt.Println("   - Post messages")
		fmt.Println("   - Delete messages")
		fmt.Println("   - Manage users (to check subscriptions)")
	} else {
		fmt.Println("✅ Bot has admin permissions!")
	}

	fmt.Println()
	fmt.Println(line)
	fmt.Println("✅ All checks passed! Bot is properly configured.")
	fmt.Println(line)
}

func chatInfo(channelID string) tgbotapi.ChatInfoConfig {
	cc := tgbotapi.ChatConfig{}
	if strings.HasPrefix(channelID, "@") {
		cc.SuperGroupUsername = channelID
	} else if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		cc.ChatID = id
	} else {
		cc.SuperGroupUsername = channelID
	}
	return tgbotapi.ChatInfoConfig{ChatConfig: cc}
}

func fail(err error) {
	fmt.Printf("❌ Error: %v\n", err)
	fmt.Println()
	fmt.Println("Common issues:")
	fmt.Println("1. Bot is not added to the channel")
	fmt.Println("2. Bot is not an admin in the channel")
	fmt.Println("3. Wrong channel ID in .env file")
	fmt.Println()
	fmt.Println("Solutions:")
	fmt.Println("1. Go to your channel settings")
	fmt.Println("2. Add your bot as administrator")
	fmt.Println("3. Give it at least 'Manage users' permission")
	os.Exit(1)
}
