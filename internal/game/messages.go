package game

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/auberginewly/feihualing/internal/store"
)

const (
	commandStart = "feihualing"
	commandScore = "feihualing-score"
	commandLast  = "feihualing-last"
	commandStop  = "feihualing-stop"
	commandHelp  = "feihualing-help"

	optionMinutes = "minutes"
	optionChar    = "char"

	messageAlreadyActive     = "飞花令游戏正在进行中，请等待本轮结束！"
	messageInvalidDuration   = "时间必须是1-60分钟之间的数字！"
	messageInvalidTargetChar = "令字必须是单个汉字！例如：/feihualing 2 月"
	messageNoActiveRound     = "当前没有进行中的飞花令游戏！"
	messageNoScores          = "暂无积分记录！"
	messageNoLastRound       = "暂无最近一局的游戏记录！"

	messageMissingTargetFormat = "%s，诗句中不含令字『%s』！"
	messageDuplicateFormat     = "%s，该诗句本轮已被使用过！"
	messageGuidanceFormat      = "诗句需为 3-20 字的诗文，且包含令字『%s』，再试一次吧！"

	endHeaderExpired = "⏰ 时间到！飞花令游戏结束！\n\n"
	endHeaderForced  = "🛑 飞花令游戏已强制结束！\n\n"

	lastRoundTimeLayout = "01-02 15:04"

	helpText = `🌸 飞花令帮助 🌸

🎮 游戏指令：
/feihualing <时间> <令字> - 开始游戏
  示例：/feihualing 2 月

📊 查询指令：
/feihualing-score - 查看总积分榜
/feihualing-last - 查看最近一局排名
/feihualing-stop - 强制结束游戏
/feihualing-help - 显示此帮助

🎯 游戏规则：
1. 回复包含令字的诗句即可得分
2. 每人每次只能回答一条诗句，每句得1分
3. 同一局内不能重复使用诗句
4. 每局结束后重新开始，可重复之前用过的诗句
5. 时间结束后自动公布结果

⚠️ 注意事项：
- 诗句长度3-20字，必须包含指定令字
- 不同频道/用户的积分分别统计
- 游戏进行中，普通聊天不会被识别为诗句`
)

func startMessage(targetChar string, durationMinutes int) string {
	return fmt.Sprintf("🌸 飞花令游戏开始！🌸\n令字：【%s】\n时间：%d 分钟\n请在本频道回复包含令字『%s』的诗句！\n每人每次只能回答一条诗句，每句得1分！",
		targetChar, durationMinutes, targetChar)
}

func submitSuccessMessage(displayName string, score int, remaining time.Duration) string {
	return fmt.Sprintf("✅ %s 得 1 分！\n当前得分：%d 分\n剩余时间：%s", displayName, score, formatRemaining(remaining))
}

func guidanceMessage(targetChar string) string {
	return fmt.Sprintf(messageGuidanceFormat, targetChar)
}

func fmtMissingTarget(displayName, targetChar string) string {
	return fmt.Sprintf(messageMissingTargetFormat, displayName, targetChar)
}

func fmtDuplicate(displayName string) string {
	return fmt.Sprintf(messageDuplicateFormat, displayName)
}

// formatRemaining renders minutes+seconds, dropping the minute part once it
// reaches zero.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	minutes, seconds := total/60, total%60
	if minutes > 0 {
		return fmt.Sprintf("%d分%d秒", minutes, seconds)
	}
	return fmt.Sprintf("%d秒", seconds)
}

type rankedEntry struct {
	userID string
	score  int
}

// rankParticipants orders by score descending, then userID for a stable
// order among ties.
func rankParticipants(participants map[string]int) []rankedEntry {
	ranked := make([]rankedEntry, 0, len(participants))
	for userID, score := range participants {
		ranked = append(ranked, rankedEntry{userID: userID, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].userID < ranked[j].userID
	})
	return ranked
}

func rankMedal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "🏅"
	}
}

func participantName(userID string, displayNames map[string]string) string {
	if name := displayNames[userID]; name != "" {
		return name
	}
	return "用户" + userID
}

func buildEndMessage(forced bool, targetChar string, durationMinutes int, participants map[string]int, displayNames map[string]string, poemCount int) string {
	var b strings.Builder
	if forced {
		b.WriteString(endHeaderForced)
	} else {
		b.WriteString(endHeaderExpired)
	}
	fmt.Fprintf(&b, "本轮令字：【%s】\n游戏时长：%d 分钟\n\n", targetChar, durationMinutes)

	if len(participants) == 0 {
		b.WriteString("😔 本轮无人参与，下次加油！")
		return b.String()
	}

	b.WriteString("🏆 本局积分榜：\n")
	for i, entry := range rankParticipants(participants) {
		fmt.Fprintf(&b, "%s %d. %s: %d 分\n", rankMedal(i+1), i+1, participantName(entry.userID, displayNames), entry.score)
	}
	fmt.Fprintf(&b, "\n📖 总共收集了 %d 句诗词！\n", poemCount)
	b.WriteString("输入 /feihualing-last 可查看本局详细排名")
	return b.String()
}

func sessionChatType(sessionID string) string {
	if strings.HasPrefix(sessionID, "group_") {
		return "群聊"
	}
	return "私聊"
}

func buildCumulativeScoreboard(sessionID string, ledger map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 飞花令总积分榜 (%s) 🏆\n\n", sessionChatType(sessionID))
	for i, entry := range rankParticipants(ledger) {
		fmt.Fprintf(&b, "%s %d. %s: %d 分\n", rankMedal(i+1), i+1, "用户"+entry.userID, entry.score)
	}
	b.WriteString("\n💡 输入 /feihualing-last 查看最近一局排名")
	return b.String()
}

func buildLastRoundSummary(sessionID string, rec *store.RoundRecord, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 最近一局飞花令详情 (%s) 📋\n\n", sessionChatType(sessionID))
	fmt.Fprintf(&b, "令字：【%s】\n时长：%d 分钟\n", rec.TargetChar, rec.DurationMinutes)
	fmt.Fprintf(&b, "开始时间：%s\n", rec.StartedAt.In(loc).Format(lastRoundTimeLayout))
	fmt.Fprintf(&b, "诗句总数：%d 句\n\n", rec.PoemCount)

	if len(rec.Participants) == 0 {
		b.WriteString("😔 本局无人参与")
		return b.String()
	}
	b.WriteString("🏆 本局排名：\n")
	for i, entry := range rankParticipants(rec.Participants) {
		fmt.Fprintf(&b, "%s %d. %s: %d 分\n", rankMedal(i+1), i+1, "用户"+entry.userID, entry.score)
	}
	return strings.TrimRight(b.String(), "\n")
}
