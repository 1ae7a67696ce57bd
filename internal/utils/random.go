package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"Kim", "Lee", "Park", "Choi", "Jung", "Kang", "Cho", "Yoon", "Jang", "Lim",
	"Han", "Oh", "Seo", "Shin", "Kwon", "Hwang", "Ahn", "Song", "Yoo", "Hong",
}
var commonGivenNames = []string{
	"Minjun", "Seoyeon", "Jiho", "Jiwoo", "Hayoon", "Doyun", "Eunwoo", "Seojun", "Hajun", "Jiyu",
	"Yejun", "Sua", "Jimin", "Chaewon", "Siwoo", "Harin", "Juwon", "Yuna", "Gunwoo", "Dahyun",
}

func GenerateRandomFullName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	given := commonGivenNames[rand.Intn(len(commonGivenNames))]
	return given + " " + surname
}

var digits = "0123456789"

// GenerateUsernameFromFullName 取名字的小写形式并追加 1~3 位随机数字
func GenerateUsernameFromFullName(fullName string) string {
	username := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleMember,
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

var scheduleColors = []string{"#eeeaff", "#FF5733", "#ffd6a5", "#caffbf", "#9bf6ff", "#bdb2ff", "#ffc6ff"}

func GenerateRandomColor() string {
	return scheduleColors[rand.Intn(len(scheduleColors))]
}

var scheduleTitles = []string{"회의", "운동", "공부", "점심 약속", "코드 리뷰", "독서", "산책"}

var scheduleStatuses = []string{"진행중", "완료"}

// GenerateRandomSubSchedules 在 weekStart 所在的一周内生成 n 个按 15 分钟对齐的子日程
func GenerateRandomSubSchedules(weekStart time.Time, n int, mainSchedule string) []domain.SubSchedule {
	subs := make([]domain.SubSchedule, 0, n)

	for i := 0; i < n; i++ {
		day := rand.Intn(7)
		hour := rand.Intn(21) + 1
		quarter := rand.Intn(4)
		slots := rand.Intn(8) + 1 // 15 分钟 ~ 2 小时

		start := weekStart.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(quarter*15)*time.Minute)
		end := start.Add(time.Duration(slots*15) * time.Minute)

		subs = append(subs, domain.SubSchedule{
			MainSchedule: mainSchedule,
			Title:        scheduleTitles[rand.Intn(len(scheduleTitles))],
			StartTime:    start,
			EndTime:      end,
			Description:  fmt.Sprintf("自动生成的日程 %d", i+1),
			Color:        GenerateRandomColor(),
			Status:       scheduleStatuses[rand.Intn(len(scheduleStatuses))],
		})
	}

	return subs
}
