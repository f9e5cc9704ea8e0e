package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("无效的参数", err.Message)
	suite.Empty(err.Details)

	// 多个详情
	err = New(ErrUnknownLocation, "地点: 99", "玩家: 42")
	suite.Equal("地点: 99; 玩家: 42", err.Details)
}

// 测试格式化错误创建
func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrInvalidCommand, "指令 %s 缺少参数", "go")
	suite.Equal(ErrInvalidCommand, err.Code)
	suite.Equal("指令 go 缺少参数", err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	originalErr := errors.New("database is locked")
	wrappedErr := Wrap(originalErr, ErrDatabaseQuery)
	suite.Equal(ErrDatabaseQuery, wrappedErr.Code)
	suite.Equal("database is locked", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)
	suite.True(errors.Is(wrappedErr, originalErr))

	suite.Nil(Wrap(nil, ErrUnknown))

	// 包装已有的AppError保留原始错误码
	appErr := New(ErrDatabaseUpdate, "保存玩家失败")
	wrappedAppErr := Wrap(appErr, ErrUnknown, "攻击指令")
	suite.Equal(ErrDatabaseUpdate, wrappedAppErr.Code)
	suite.Contains(wrappedAppErr.Details, "攻击指令")
}

// 测试格式化错误包装
func (suite *ErrorsTestSuite) TestWrapf() {
	originalErr := errors.New("connection refused")
	wrappedErr := Wrapf(originalErr, ErrDatabaseConnect, "数据库 %s 连接失败", "sqlite")
	suite.Equal("数据库 sqlite 连接失败", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIsAndGetCode() {
	err := New(ErrUnknownLocation)
	suite.True(Is(err, ErrUnknownLocation))
	suite.False(Is(err, ErrNotFound))
	suite.False(Is(nil, ErrUnknownLocation))
	suite.False(Is(errors.New("标准错误"), ErrUnknown))

	suite.Equal(ErrUnknownLocation, GetCode(err))
	suite.Equal(ErrUnknown, GetCode(errors.New("标准错误")))
	suite.Equal(ErrorCode(0), GetCode(nil))
}

// 测试错误消息
func (suite *ErrorsTestSuite) TestError() {
	err := &AppError{Code: ErrNotFound, Message: "资源未找到"}
	suite.Equal("[1002] 资源未找到", err.Error())

	err.Details = "玩家ID: 123"
	suite.Equal("[1002] 资源未找到: 玩家ID: 123", err.Error())
}

// 测试WithCause
func (suite *ErrorsTestSuite) TestWithCause() {
	cause := errors.New("no such table: players")
	err := New(ErrDatabaseQuery).WithCause(cause)
	suite.Equal(cause, err.Cause)
	suite.Equal("no such table: players", err.Details)

	err2 := New(ErrDatabaseQuery, "加载玩家失败").WithCause(cause)
	suite.Equal("加载玩家失败", err2.Details)
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrInvalidParam, 400},
		{ErrInvalidCommand, 400},
		{ErrNotFound, 404},
		{ErrUnknownLocation, 404},
		{ErrAlreadyExists, 409},
		{ErrPermissionDenied, 403},
		{ErrTimeout, 408},
		{ErrAuthentication, 401},
		{ErrTokenExpired, 401},
		{ErrDatabaseConnect, 503},
		{ErrDatabaseUpdate, 503},
		{ErrUnknown, 500},
	}

	for _, tc := range testCases {
		err := New(tc.code)
		suite.Equal(tc.expected, err.HTTPStatus(), "错误码 %d 应该返回HTTP状态码 %d", tc.code, tc.expected)
	}
}

// 测试存储故障判断
func (suite *ErrorsTestSuite) TestIsStoreFailure() {
	for _, code := range []ErrorCode{ErrDatabaseConnect, ErrDatabaseQuery, ErrDatabaseDelete, ErrTransaction} {
		suite.True(IsStoreFailure(New(code)), "错误码 %d 应该是存储故障", code)
	}
	suite.False(IsStoreFailure(New(ErrUnknownLocation)))
	suite.False(IsStoreFailure(errors.New("plain")))
	suite.False(IsStoreFailure(nil))
}

// 测试可重试与严重错误判断
func (suite *ErrorsTestSuite) TestRetryableAndCritical() {
	suite.True(IsRetryable(New(ErrDatabaseQuery)))
	suite.True(IsRetryable(New(ErrTimeout)))
	suite.False(IsRetryable(New(ErrInvalidCommand)))
	suite.False(IsRetryable(nil))

	suite.True(IsCritical(New(ErrCatalogEmpty)))
	suite.True(IsCritical(New(ErrConfigLoad)))
	suite.False(IsCritical(New(ErrUnknownLocation)))
	suite.False(IsCritical(nil))
}

// 测试调用栈捕获
func (suite *ErrorsTestSuite) TestStackCapture() {
	err := New(ErrUnknown)
	suite.Greater(len(err.Stack), 0)
	suite.NotEmpty(err.GetStack())
}

// 测试错误响应
func (suite *ErrorsTestSuite) TestErrorResponse() {
	err := New(ErrDatabaseConnect)
	response := NewErrorResponse(err, "req-123")

	suite.False(response.Success)
	suite.Equal(ErrDatabaseConnect, response.Error.Code)
	suite.Equal(err.Message, response.Error.Message)
	suite.True(response.Retryable)
	suite.Equal("req-123", response.RequestID)
	suite.Greater(response.Timestamp, int64(0))
}

// 测试错误响应不暴露调用栈与存储层细节
func (suite *ErrorsTestSuite) TestErrorResponseHidesInternals() {
	err := Wrap(errors.New("dial tcp 10.0.0.5:3306: connection refused"), ErrDatabaseQuery, "SELECT * FROM players")
	suite.NotEmpty(err.GetStack())

	body, jsonErr := json.Marshal(NewErrorResponse(err, "req-9"))
	suite.NoError(jsonErr)
	suite.NotContains(string(body), "stack")
	suite.NotContains(string(body), "SELECT")
	suite.NotContains(string(body), "10.0.0.5")
	suite.Contains(string(body), `"code":5001`)

	// 业务错误保留详情
	userErr := New(ErrUnknownLocation).WithDetails("沙漠")
	body, jsonErr = json.Marshal(NewErrorResponse(userErr, ""))
	suite.NoError(jsonErr)
	suite.Contains(string(body), "沙漠")
	suite.Contains(string(body), `"retryable":false`)
}

// 测试未知错误码
func (suite *ErrorsTestSuite) TestUnknownErrorCode() {
	err := New(ErrorCode(99999))
	suite.Equal(ErrorCode(99999), err.Code)
	suite.Equal("未知错误", err.Message)
}

// 测试游戏相关错误
func (suite *ErrorsTestSuite) TestGameErrors() {
	gameErrors := map[ErrorCode]string{
		ErrUnknownLocation: "未知的地点",
		ErrInvalidCommand:  "无效的指令",
		ErrCatalogEmpty:    "地点目录为空",
		ErrInvalidSeed:     "无效的地点种子数据",
	}

	for code, expectedMsg := range gameErrors {
		suite.Equal(expectedMsg, New(code).Message)
	}
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
