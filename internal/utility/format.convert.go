package utility

import (
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contains kiểm tra một item có nằm trong slice không
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// String2ObjectID chuyển đổi chuỗi thành ObjectID
// @params - chuỗi cần chuyển đổi
// @returns - ObjectID (NilObjectID nếu chuỗi không hợp lệ)
func String2ObjectID(id string) primitive.ObjectID {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectId
}

// ObjectID2String chuyển đổi ObjectID thành chuỗi
// @params - ObjectID cần chuyển đổi
// @returns - chuỗi ObjectID
func ObjectID2String(id primitive.ObjectID) string {
	return id.Hex()
}

// EscapeRegex escape các ký tự đặc biệt để dùng chuỗi người dùng nhập trong regex
func EscapeRegex(input string) string {
	return regexp.QuoteMeta(input)
}

// P2Float64 chuyển đổi chuỗi thành float64, trả về 0 nếu không parse được
func P2Float64(input string) float64 {
	result, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0
	}
	return result
}

// P2Int64 chuyển đổi chuỗi thành int64, trả về 0 nếu không parse được
func P2Int64(input string) int64 {
	result, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0
	}
	return result
}
