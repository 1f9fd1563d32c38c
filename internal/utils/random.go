package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/paiban-dev/roster-manager/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// 用姓名的拼音加随机数字生成邮箱的本地部分
func GenerateEmailLocalPartFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	localPart := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		localPart += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		localPart += string(digits[rand.Intn(len(digits))])
	}

	return localPart
}

func GenerateRandomPhone() string {
	phone := "1" + string(digits[rand.Intn(9)+1])
	for i := 0; i < 9; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

// 使用 Fisher-Yates 洗牌算法随机挑选若干个不可排班的星期几，
// 大约一半的员工每天都可以排班
func GenerateRandomUnavailableWeekdays() []int32 {
	if rand.Intn(2) == 0 {
		return []int32{}
	}

	days := []int32{0, 1, 2, 3, 4, 5, 6}
	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(3) + 1
	return days[:n]
}

func GenerateRandomStaff(emailDomainName string) *domain.Staff {
	name := GenerateRandomChineseName()

	member := &domain.Staff{
		Name:                name,
		Email:               GenerateEmailLocalPartFromChineseName(name) + "@" + emailDomainName,
		Phone:               GenerateRandomPhone(),
		UnavailableWeekdays: GenerateRandomUnavailableWeekdays(),
	}

	// 大约三分之二的员工有每周工时上限
	if rand.Intn(3) != 0 {
		maxHours := float64(rand.Intn(5)*4 + 16) // 16~32 小时
		member.MaxHours = &maxHours
	}

	return member
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
